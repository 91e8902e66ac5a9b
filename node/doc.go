// Package node implements the routing and execution nodes of the
// conversation state machine: conversation classification, project
// context resolution, task classification, prerequisite validation, the
// chat responder, the bounded simple executor and the self-looping
// plan-execute engine. Every node treats the reasoning service as a
// fallible external collaborator and recovers with a documented
// conservative default instead of surfacing errors.
package node
