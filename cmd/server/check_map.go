// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/metromap/internal/metromap"
)

// newCheckMapCmd validates a map document offline, the same way POST /map
// would, without starting the server.
func newCheckMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-map <file>",
		Short: "Validate a metro map JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := metromap.LoadFile(args[0])
			if err != nil {
				return err
			}
			sum := m.Summarize()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d stations, %d lines, %d connections)\n",
				sum.ID, sum.Stations, sum.Lines, sum.Connections)
			return err
		},
	}
}
