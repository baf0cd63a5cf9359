// Package ldfa implements the layered deterministic finite automaton (LDFA)
// data structure: the core symbolic representation every other package in
// this module operates on.
package ldfa

import (
	"fmt"

	"github.com/ldfagames/solver/shape"
	"github.com/ldfagames/solver/storage"
)

// StateID identifies a state within one layer. Ids 0 and 1 are reserved at
// every layer for the reject and accept sinks; real states begin at 2.
type StateID = storage.Word

const (
	// Reject is the sink state that accepts no string.
	Reject StateID = 0

	// Accept is the sink state that accepts any completion.
	Accept StateID = 1

	// FirstRealState is the first non-sink state id in any layer.
	FirstRealState StateID = 2
)

// IsSink reports whether id is one of the two reserved sink states.
func IsSink(id StateID) bool {
	return id == Reject || id == Accept
}

// String is a concrete N-tuple over a Shape.
type String []int

// LDFA is a finalized, immutable layered DFA. It has shape.Dim() variable
// layers (0..N-1); layer k's states each carry shape[k] transitions into
// layer k+1. Layer N is virtual: it is never materialized, and any
// transition landing on id Reject or Accept there is interpreted as routing
// into the corresponding sink rather than a real state.
//
// Construction goes through Builder; an LDFA becomes reachable only once
// its initial state is published (Builder.Finalize), at which point it is
// safe to share across goroutines (no further mutation is possible).
type LDFA struct {
	shape        shape.Shape
	layers       []*storage.MappedArray // length N; nil once a layer is fully constant-folded away
	layerSizes   []int                  // real (non-sink) state count per layer
	initialState StateID
	initialLayer int // layer the initial state lives in; 0 for a normal LDFA
}

// Shape returns the shape this LDFA is defined over.
func (d *LDFA) Shape() shape.Shape {
	return d.shape
}

// Dim returns the dimension N.
func (d *LDFA) Dim() int {
	return d.shape.Dim()
}

// LayerSize returns the number of real (non-sink) states at layer.
// LayerSize(Dim()) returns 0, since the terminal layer has no real states.
func (d *LDFA) LayerSize(layer int) int {
	if layer == d.Dim() {
		return 0
	}
	return d.layerSizes[layer]
}

// InitialState returns the LDFA's initial state id, always a layer-0 id.
func (d *LDFA) InitialState() StateID {
	return d.initialState
}

// Transition returns the state id in layer+1 reached from (layer, state) on
// character c. Panics (InvalidState) if state or c is out of range for a
// non-sink query; sinks self-route regardless of layer.
func (d *LDFA) Transition(layer int, state StateID, c int) StateID {
	if IsSink(state) {
		return state
	}
	if layer < 0 || layer >= d.Dim() {
		panic(newError(InvalidState, fmt.Sprintf("transition: layer %d out of range", layer)))
	}
	s := d.shape[layer]
	if c < 0 || c >= s {
		panic(newError(InvalidState, fmt.Sprintf("transition: character %d out of range [0,%d)", c, s)))
	}
	idx := int(state-FirstRealState)*s + c
	return d.layers[layer].Get(idx)
}

// Transitions returns the full transition vector for (layer, state) as a
// fresh slice. Sinks return a self-routing vector of their own id.
func (d *LDFA) Transitions(layer int, state StateID) []StateID {
	s := d.shape[layer]
	out := make([]StateID, s)
	if IsSink(state) {
		for i := range out {
			out[i] = state
		}
		return out
	}
	idx := int(state - FirstRealState)
	base := idx * s
	for i := 0; i < s; i++ {
		out[i] = d.layers[layer].Get(base + i)
	}
	return out
}

// Contains walks the transition function from the initial state and reports
// whether it lands on Accept at the terminal layer.
func (d *LDFA) Contains(characters []int) bool {
	if !d.shape.ValidString(characters) {
		return false
	}
	state := d.initialState
	for layer := 0; layer < d.Dim(); layer++ {
		if IsSink(state) {
			break
		}
		state = d.Transition(layer, state, characters[layer])
	}
	return state == Accept
}

// States returns the total number of states (across all layers, including
// the two reserved sink ids at each layer) — a rough complexity indicator,
// mirroring dfa/lazy's `states()` size metric.
func (d *LDFA) States() int {
	total := 0
	for k := 0; k < d.Dim(); k++ {
		total += d.LayerSize(k) + 2
	}
	return total
}
