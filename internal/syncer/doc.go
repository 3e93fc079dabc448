// Package syncer implements the incremental sync engine.
//
// For each registered series it computes the fetch window from the
// watermark, dispatches to the right provider adapter, normalizes and
// filters the rows, appends them, and advances the watermark to the max
// date actually written. Every per-series failure is converted into an
// outcome entry; nothing a single series does can abort the run.
//
// Per-series state machine for one run:
//
//	PENDING -> UP_TO_DATE | FAILED | NO_NEW_DATA | NO_NEW_TRADING_DATA |
//	           WRITE_FAILED | UPDATED
//
// All states are terminal for the run; there are no in-process retries.
package syncer
