// Package clock provides countdown timers for level sessions.
//
// Ticker is the wall-clock implementation backed by time.Ticker. Manual is a
// deterministic fake driven by Advance, used by tests and replays.
//
// Both deliver one tick with the full duration when started, then one tick
// per interval with the time remaining, and finally a single finish
// notification instead of a zero tick. Cancel suppresses every callback of
// the cancelled run.
package clock
