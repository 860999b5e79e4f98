// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package eventprocessor distributes mining run events.
//
// The coordinator publishes run.started, run.completed, run.empty and
// run.failed events onto an in-process Watermill GoChannel. A Watermill
// router fans them out to the registered consumers (the recommendation
// cache and the websocket hub) with panic recovery and retry middleware.
//
// With NATS enabled each event is also published to the core NATS subject
// "<topic>.<event type>", e.g. basketry.runs.run.completed, so shop
// frontends or cache layers outside the process can react to a rebuilt
// rule store. The NATS mirror sits behind a circuit breaker and never
// blocks in-process delivery.
//
//	bus, _ := eventprocessor.NewBus(cfg)
//	bus.Handle("recommend-cache", func(ctx context.Context, ev mining.Event) error {
//	    if ev.Type == mining.EventCompleted {
//	        svc.Invalidate()
//	    }
//	    return nil
//	})
//	coord.Subscribe(bus.OnRunEvent)
//	go bus.Run(ctx)
package eventprocessor
