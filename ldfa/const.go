package ldfa

import (
	"github.com/ldfagames/solver/shape"
	"github.com/ldfagames/solver/storage"
)

// Constant returns the LDFA over s that accepts every string (accept=true)
// or none (accept=false), without materializing any real state: its
// initial state is the sink itself, and every layer is empty.
func Constant(s shape.Shape, accept bool) *LDFA {
	init := Reject
	if accept {
		init = Accept
	}
	return &LDFA{
		shape:        s,
		layers:       make([]*storage.MappedArray, s.Dim()),
		layerSizes:   make([]int, s.Dim()),
		initialState: init,
	}
}
