// Package core defines the shared data model of the PM copilot
// orchestration engine: conversation state, execution plans, the closed
// set of routing targets and the progress event stream emitted to
// upstream presentation layers. It contains no I/O and no calls to
// external services; every other package depends on it.
package core
