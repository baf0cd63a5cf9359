package ldfa

import (
	"crypto/sha256"
	"encoding/binary"
)

// Hash returns a content digest of this LDFA: the shape, the initial state,
// and every layer's transition table in state-id order. Equal digests mean
// equal tables and so the same language; the converse holds only once both
// LDFAs are minimized (Minimize) — Hash does not itself canonicalize state
// numbering, it only digests whatever numbering is present, the same content-addressed
// persistence idea applied elsewhere in this module: a key derived from a
// finalized, canonical byte image.
func (d *LDFA) Hash() [32]byte {
	h := sha256.New()
	shapeHash := d.shape.Hash()
	h.Write(shapeHash[:])

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], d.initialState)
	h.Write(buf[:])

	for k := 0; k < d.Dim(); k++ {
		size := d.LayerSize(k)
		binary.LittleEndian.PutUint32(buf[:], uint32(size))
		h.Write(buf[:])
		if d.layers[k] == nil {
			continue
		}
		words := d.layers[k].Slice()
		for _, w := range words {
			binary.LittleEndian.PutUint32(buf[:], w)
			h.Write(buf[:])
		}
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
