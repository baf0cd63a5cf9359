// Package shape describes the fixed-length string spaces that LDFAs are
// built over.
package shape

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Shape is an ordered sequence of per-layer alphabet sizes. A string over a
// Shape is an N-tuple (c[0],...,c[N-1]) with 0 <= c[k] < s[k].
type Shape []int

// Dim returns the dimension N (the number of variable layers).
func (s Shape) Dim() int {
	return len(s)
}

// Validate checks that every entry is a positive alphabet size.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("shape: dimension must be >= 1")
	}
	for k, sz := range s {
		if sz < 1 {
			return fmt.Errorf("shape: layer %d has size %d, want >= 1", k, sz)
		}
	}
	return nil
}

// Equal reports whether two shapes describe the same string space.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// ValidString reports whether characters is a well-formed string over s:
// the right length, with every character within its layer's bound.
func (s Shape) ValidString(characters []int) bool {
	if len(characters) != len(s) {
		return false
	}
	for k, c := range characters {
		if c < 0 || c >= s[k] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Hash returns a stable digest of the shape, used as the leading component
// of an LDFA's content hash and as the key for the singleton interning maps
// in construct.
func (s Shape) Hash() [32]byte {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
	h.Write(buf[:])
	for _, sz := range s {
		binary.LittleEndian.PutUint64(buf[:], uint64(sz))
		h.Write(buf[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (s Shape) String() string {
	return fmt.Sprintf("%v", []int(s))
}
