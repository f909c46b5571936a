// Package signal defines the closed set of control outcomes a task run can
// resolve to: SUCCESS, SKIP, RETRY, SHUTDOWN, DONTRUN and FAIL.
//
// Signals implement error so task bodies can classify their own outcome by
// returning one. The runner matches on the signal's Kind rather than an
// error type hierarchy.
package signal
