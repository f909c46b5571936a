// Package trigger provides the eligibility predicates that decide whether a
// task may run given how its upstream tasks finished.
package trigger
