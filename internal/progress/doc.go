// Package progress defines the sink that long-running import steps report
// to, and the terminal and log implementations used by the CLI.
//
// A sink starts indeterminate (a busy indicator). Determinate switches it to a
// 0..100 range; callers treat that switch as one-way for the current attempt.
// Canceled is polled cooperatively between units of work.
package progress
