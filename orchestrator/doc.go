// Package orchestrator owns the per-turn lifecycle: it loads or creates
// the thread's conversation state, sanitizes the incoming message,
// dispatches over the routing enum until a node terminates the turn,
// persists the updated state and streams progress events. Each turn
// emits zero or more node/tool events followed by exactly one final
// event.
package orchestrator
