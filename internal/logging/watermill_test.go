// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	adapter := NewWatermillAdapterWithLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

	adapter.Info("subscribed", watermill.LogFields{"topic": "metromap.replaced"})
	adapter.Error("handler failed", errors.New("disk full"), watermill.LogFields{"revision": 7})
	adapter.With(watermill.LogFields{"handler": "snapshot"}).Debug("message acked", nil)

	out := buf.String()
	for _, want := range []string{
		`"topic":"metromap.replaced"`,
		`"error":"disk full"`,
		`"revision":7`,
		`"handler":"snapshot"`,
		`"level":"debug"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output: %s", want, out)
		}
	}
}
