// Package orchestrator sequences a devchain run.
//
// Machine.Transition maps (State, Event) to (State, []Effect) and performs no
// I/O, so every reaction to child output can be tested with plain values.
// Runner owns the child shells, turns their output into events, and executes
// the returned effects.
//
// Phases
//
//	idle -> node-starting -> deploying -> address-captured -> secondary-deploy-triggered
//	                                  \-> ready
//	any non-terminal phase -> terminated (generated folder created, rerun)
//
// The captured PublicStaking address lives in State and is read once, when the
// readiness marker arrives, to render the ALCB command.
package orchestrator
