// Package assessment holds the question bank, the per-respondent session
// state machine, scoring and the quadrant classification.
//
// Nothing here performs I/O except loading a question bank file. Sessions
// are values: callers pass the current Session in and keep the one returned.
package assessment
