// Package viz renders sweep progress in the terminal.
//
//   - [Progress]: Bubble Tea model with a progress bar, outcome counts and
//     a live chart of first-orbit times
//   - [StatusLine]: single-line report used when the TUI is off
//   - [Forward]: sink adapter feeding samples to a running program
//
// # Key Bindings
//
//	q, ctrl+c - Stop the sweep; samples already written are kept
package viz
