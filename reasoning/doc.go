// Package reasoning abstracts the nondeterministic LLM-backed decision
// service behind a small interface so the orchestration state machine is
// unit-testable independent of model behavior. Provider adapters live in
// the openai and anthropic subpackages; Scripted is the deterministic
// test double.
//
// Every call may fail transiently. Callers are expected to recover with
// their documented conservative default rather than surfacing the error.
package reasoning
