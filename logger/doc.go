// Package logger provides structured logging for the workflow engine,
// built on zerolog. Loggers are tagged per component and carry flow and
// task identifiers as structured fields.
package logger
