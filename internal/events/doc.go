// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

/*
Package events carries metro map change notifications between components.

The bus is an in-process Watermill GoChannel pub/sub. The map store
publishes a MapReplaced event on TopicMapReplaced after every successful
replacement, and consumers (currently the snapshot writer) subscribe
through a Router that adds panic recovery and retry with backoff.

	bus := events.NewBus(events.DefaultBusConfig(), logging.NewWatermillAdapter())
	store.SetPublisher(bus)

	router, _ := events.NewRouter(nil, logging.NewWatermillAdapter())
	router.AddConsumerHandler("snapshot", events.TopicMapReplaced, bus.Subscriber(), h)
	go router.Run(ctx)

Events are JSON encoded with goccy/go-json. Delivery is at-most-once
across restarts because the bus is not persistent.
*/
package events
