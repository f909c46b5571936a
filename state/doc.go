// Package state defines the run states a task moves through during a single
// run attempt and the legal transitions between them.
//
// A run starts in Pending, passes through Running, and ends in exactly one of
// the terminal states: Succeeded, Failed, Skipped or Shutdown.
package state
