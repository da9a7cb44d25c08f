// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

/*
Package supervisor provides process supervision using suture v4.

The tree organizes long-running services into three layers:

	RootSupervisor ("metromap")
	├── DataSupervisor ("data-layer")
	│   └── SnapshotGCService (if snapshots are enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventRouterService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events
are logged through sutureslog, which bridges to the zerolog-backed slog
handler from the logging package.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewEventRouterService(buildRouter, 10*time.Second))
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	return tree.Serve(ctx)

See the services subpackage for the wrappers.
*/
package supervisor
