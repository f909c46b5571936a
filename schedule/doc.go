// Package schedule provides flow run schedules and their serializable form.
package schedule
