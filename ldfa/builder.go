package ldfa

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ldfagames/solver/shape"
	"github.com/ldfagames/solver/storage"
)

// layerBuilder is one layer's dedup table: it maps a staged state's
// transition vector, turned into a string by keyOf so it can index a Go map,
// to the id that state was given, and holds the next id to hand out. Mirrors dfa/lazy.Cache's
// GetOrInsert dedup-on-insert pattern, generalized from a single NFA-subset
// cache to one cache per LDFA layer.
type layerBuilder struct {
	dedup map[string]StateID
	next  StateID
}

func newLayerBuilder() *layerBuilder {
	return &layerBuilder{dedup: make(map[string]StateID), next: FirstRealState}
}

func keyOf(transitions []StateID) string {
	// Each StateID is at most 32 bits; 5 bytes per entry (4 value bytes
	// followed by a ',' separator) keeps the key unambiguous regardless of
	// vector length.
	buf := make([]byte, 0, len(transitions)*5)
	for _, t := range transitions {
		buf = append(buf, byte(t), byte(t>>8), byte(t>>16), byte(t>>24), ',')
	}
	return string(buf)
}

// Builder is the mutable, owning, staging side of LDFA construction: one
// layerBuilder dedup table per layer, plus a scratch MappedArray per layer
// that states are appended to as they are interned. Finalize flushes all of
// that into the immutable LDFA.
type Builder struct {
	shape    shape.Shape
	scratch  []*layerBuilder
	arrays   []*storage.MappedArray
	scratDir string
	done     bool
}

// NewBuilder creates a Builder for shape s, staging scratch arrays under
// scratchDir (os.TempDir-style; empty uses the OS default).
func NewBuilder(s shape.Shape, scratchDir string) (*Builder, error) {
	if err := s.Validate(); err != nil {
		return nil, wrapError(ShapeMismatch, "NewBuilder: invalid shape", err)
	}
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	b := &Builder{
		shape:    s,
		scratch:  make([]*layerBuilder, s.Dim()),
		arrays:   make([]*storage.MappedArray, s.Dim()),
		scratDir: scratchDir,
	}
	for k := 0; k < s.Dim(); k++ {
		b.scratch[k] = newLayerBuilder()
		path := filepath.Join(scratchDir, fmt.Sprintf("layer-%d-%s", k, uuid.NewString()))
		arr, err := storage.CreateMappedArray(path, s[k]*16)
		if err != nil {
			return nil, wrapError(IOFailure, "NewBuilder: creating scratch array", err)
		}
		b.arrays[k] = arr
	}
	return b, nil
}

// AddState interns a state at layer with the given transition vector
// (length must equal shape[layer]; entries are state ids in layer+1, or
// Reject/Accept for a sink target). Returns the state's id, reusing an
// existing id if an identical vector was already staged at this layer.
func (b *Builder) AddState(layer int, transitions []StateID) (StateID, error) {
	if b.done {
		return 0, newError(AlreadyFinalized, "AddState: builder already finalized")
	}
	if layer < 0 || layer >= b.shape.Dim() {
		return 0, newError(InvalidState, fmt.Sprintf("AddState: layer %d out of range", layer))
	}
	if len(transitions) != b.shape[layer] {
		return 0, newError(InvalidState, fmt.Sprintf("AddState: expected %d transitions, got %d", b.shape[layer], len(transitions)))
	}

	lb := b.scratch[layer]
	key := keyOf(transitions)
	if id, ok := lb.dedup[key]; ok {
		return id, nil
	}

	id := lb.next
	lb.next++
	lb.dedup[key] = id

	arr := b.arrays[layer]
	for _, t := range transitions {
		if err := arr.Append(t); err != nil {
			return 0, wrapError(IOFailure, "AddState: appending transition", err)
		}
	}
	return id, nil
}

// AddStateNoDedup appends a new state at layer unconditionally, skipping
// the interning lookup. Callers must guarantee the state is not a
// duplicate of one already staged at this layer — used by setalgebra's
// backward rebuild, where reachable product pairs are already known
// pairwise distinct and the caller relies on states being assigned
// strictly increasing sequential ids.
func (b *Builder) AddStateNoDedup(layer int, transitions []StateID) (StateID, error) {
	if b.done {
		return 0, newError(AlreadyFinalized, "AddStateNoDedup: builder already finalized")
	}
	if layer < 0 || layer >= b.shape.Dim() {
		return 0, newError(InvalidState, fmt.Sprintf("AddStateNoDedup: layer %d out of range", layer))
	}
	if len(transitions) != b.shape[layer] {
		return 0, newError(InvalidState, fmt.Sprintf("AddStateNoDedup: expected %d transitions, got %d", b.shape[layer], len(transitions)))
	}

	lb := b.scratch[layer]
	id := lb.next
	lb.next++
	lb.dedup[keyOf(transitions)] = id

	arr := b.arrays[layer]
	for _, t := range transitions {
		if err := arr.Append(t); err != nil {
			return 0, wrapError(IOFailure, "AddStateNoDedup: appending transition", err)
		}
	}
	return id, nil
}

// Finalize publishes initialState (a layer-0 state id, or Reject/Accept for
// a constant LDFA) and returns the immutable LDFA. The Builder must not be
// used afterward.
func (b *Builder) Finalize(initialState StateID) (*LDFA, error) {
	if b.done {
		return nil, newError(AlreadyFinalized, "Finalize: builder already finalized")
	}
	b.done = true

	sizes := make([]int, b.shape.Dim())
	layers := make([]*storage.MappedArray, b.shape.Dim())
	for k := 0; k < b.shape.Dim(); k++ {
		lb := b.scratch[k]
		sizes[k] = int(lb.next - FirstRealState)
		if sizes[k] < 0 {
			sizes[k] = 0
		}
		layers[k] = b.arrays[k]
	}

	return &LDFA{
		shape:        b.shape,
		layers:       layers,
		layerSizes:   sizes,
		initialState: initialState,
	}, nil
}

// Abandon releases the Builder's scratch arrays without finalizing,
// unlinking their backing files. Safe to call on an already-finalized or
// never-finalized Builder: once finalized, the arrays belong to the LDFA
// and Abandon leaves them in place.
func (b *Builder) Abandon() {
	if b.done {
		return
	}
	for _, arr := range b.arrays {
		if arr != nil {
			arr.Unlink()
		}
	}
}
