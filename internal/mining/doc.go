// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package mining runs the association pipeline and serialises runs.

# Pipeline

Pipeline.Run is a full batch recompute:

 1. Extract transactions from the order repository in one pass.
 2. Encode them and mine frequent itemsets (basket.Miner).
 3. Generate rules above the confidence threshold.
 4. Drop and recreate the rule store, then upsert every exploded edge
    in rule order under the max-confidence rule.
 5. Replace the multi-item rules table.

Empty input at steps 1-3 ends the run early with an error wrapping
basket.ErrEmptyInput; the stores keep the previous run's data. Per-edge
store failures are logged and skipped.

# Coordinator

Coordinator allows one run at a time. TryStart returns ErrBusy instead of
queueing, and the run context is detached from the trigger so an HTTP
client disconnecting does not abort the rebuild:

	coord := mining.NewCoordinator(pipeline)
	if _, err := coord.TryStart(r.Context(), "api"); errors.Is(err, mining.ErrBusy) {
	    // 409
	}

Snapshot never blocks on a running pipeline. Subscribe registers listeners
for run.started, run.completed, run.empty and run.failed events; the event
bus, the websocket hub and the recommendation cache all hang off it.
*/
package mining
