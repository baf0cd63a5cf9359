package ldfa

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/ldfagames/solver/storage"
)

// imageDigest identifies a state by the (already canonicalized) transition
// vector it carries. Vectors short enough to fit in 16 bytes are packed
// verbatim (collision-free by construction); longer vectors are digested
// with SHA-256, and any digest collision is resolved by a full vector
// compare before two states are actually merged.
type imageDigest [32]byte

func digestVector(vec []StateID) imageDigest {
	var out imageDigest
	if len(vec)*4 <= 16 {
		for i, v := range vec {
			binary.LittleEndian.PutUint32(out[i*4:i*4+4], v)
		}
		return out
	}
	h := sha256.New()
	buf := make([]byte, 4)
	for _, v := range vec {
		binary.LittleEndian.PutUint32(buf, v)
		h.Write(buf)
	}
	copy(out[:], h.Sum(nil))
	return out
}

func vecEqual(a, b []StateID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// constantSink reports whether every transition in vec lands on the same
// sink. A state whose image is uniformly Reject or uniformly Accept is
// indistinguishable from that sink and must collapse into it rather than
// survive as its own real state.
func constantSink(vec []StateID) (StateID, bool) {
	first := vec[0]
	if !IsSink(first) {
		return 0, false
	}
	for _, v := range vec[1:] {
		if v != first {
			return 0, false
		}
	}
	return first, true
}

type stateImage struct {
	oldID  StateID
	vec    []StateID
	digest imageDigest
}

// Minimize returns a canonically-renumbered, equivalence-collapsed copy of
// d: two states at the same layer merge into one exactly when their
// transition vectors agree after substituting each target's own canonical
// id (computed one layer at a time, from the terminal layer backward), and
// a state whose transition vector is uniformly Reject or uniformly Accept
// collapses directly into that sink instead of surviving as a real state.
// This is the layerwise analogue of Hopcroft/Moore DFA minimization,
// adapted because an LDFA's layers form a DAG rather than a single
// automaton graph: there is no need for a fixed-point iteration, since
// layer k+1's canonical ids are already final by the time layer k is
// processed.
func Minimize(d *LDFA) (*LDFA, error) {
	n := d.Dim()
	newLayers := make([]*storage.MappedArray, n)
	newSizes := make([]int, n)
	layerRemaps := make([]map[StateID]StateID, n)

	var childRemap map[StateID]StateID // remap for ids targeting layer k+1; nil at k==n-1 since Reject/Accept never need remapping
	for k := n - 1; k >= 0; k-- {
		size := d.LayerSize(k)
		if d.layers[k] == nil {
			// Constant and loaded LDFAs carry no array for a layer with no
			// real states, so there is nothing to canonicalize here.
			layerRemaps[k] = map[StateID]StateID{}
			childRemap = layerRemaps[k]
			continue
		}
		images := make([]stateImage, size)
		for i := 0; i < size; i++ {
			oldID := StateID(i) + FirstRealState
			vec := d.Transitions(k, oldID)
			if childRemap != nil {
				for j, t := range vec {
					if !IsSink(t) {
						if nt, ok := childRemap[t]; ok {
							vec[j] = nt
						}
					}
				}
			}
			images[i] = stateImage{oldID: oldID, vec: vec, digest: digestVector(vec)}
		}
		sort.Slice(images, func(a, b int) bool {
			return bytes.Compare(images[a].digest[:], images[b].digest[:]) < 0
		})

		arr, err := storage.CreateMappedArray(d.layers[k].Path()+".min", size*d.shape[k]+1)
		if err != nil {
			return nil, wrapError(IOFailure, "Minimize: creating canonical layer array", err)
		}

		remap := make(map[StateID]StateID, size)
		newID := FirstRealState
		i := 0
		for i < len(images) {
			j := i + 1
			for j < len(images) && images[j].digest == images[i].digest && vecEqual(images[j].vec, images[i].vec) {
				j++
			}
			if sink, ok := constantSink(images[i].vec); ok {
				for t := i; t < j; t++ {
					remap[images[t].oldID] = sink
				}
				i = j
				continue
			}
			for t := i; t < j; t++ {
				remap[images[t].oldID] = newID
			}
			for _, v := range images[i].vec {
				if err := arr.Append(v); err != nil {
					return nil, wrapError(IOFailure, "Minimize: appending canonical transition", err)
				}
			}
			newID++
			i = j
		}

		newLayers[k] = arr
		newSizes[k] = int(newID - FirstRealState)
		layerRemaps[k] = remap
		childRemap = remap
	}

	initial := d.initialState
	if !IsSink(initial) {
		if nt, ok := layerRemaps[0][initial]; ok {
			initial = nt
		}
	}

	return &LDFA{
		shape:        d.shape,
		layers:       newLayers,
		layerSizes:   newSizes,
		initialState: initial,
	}, nil
}
