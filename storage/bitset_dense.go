package storage

import "math/bits"

// DenseBitset is a bit-packed occupancy set over [0, size), backed by
// 64-bit words. Ordered iteration skips zero words using
// bits.TrailingZeros64, the same word-at-a-time scan idiom a SWAR byte
// search uses for zero-byte detection, generalized here from "find the
// first matching byte" to "find the first set bit".
type DenseBitset struct {
	words []uint64
	size  int
}

// NewDenseBitset allocates a bitset over [0, size).
func NewDenseBitset(size int) *DenseBitset {
	return &DenseBitset{
		words: make([]uint64, (size+63)/64),
		size:  size,
	}
}

// Add sets bit i.
func (b *DenseBitset) Add(i int) {
	b.words[i>>6] |= 1 << uint(i&63)
}

// Check reports whether bit i is set.
func (b *DenseBitset) Check(i int) bool {
	return b.words[i>>6]&(1<<uint(i&63)) != 0
}

// Size returns the universe size [0, size) this bitset was created over.
func (b *DenseBitset) Size() int {
	return b.size
}

// Count returns the number of set bits, via popcount over each word.
func (b *DenseBitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Iterate calls f once for each set bit in ascending order, skipping whole
// zero words via TrailingZeros64.
func (b *DenseBitset) Iterate(f func(int)) {
	for wi, w := range b.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			f(wi*64 + tz)
			w &= w - 1 // clear lowest set bit
		}
	}
}

// RankIndex answers rank(i) = number of set bits in [0,i) in O(1) after an
// O(size) prefix-popcount build.
type RankIndex struct {
	prefix []int // prefix[w] = popcount of words[0:w]
	bitset *DenseBitset
}

// BuildRankIndex builds a prefix-popcount array over b. b must not be
// mutated afterward without rebuilding the index.
func BuildRankIndex(b *DenseBitset) *RankIndex {
	prefix := make([]int, len(b.words)+1)
	for i, w := range b.words {
		prefix[i+1] = prefix[i] + bits.OnesCount64(w)
	}
	return &RankIndex{prefix: prefix, bitset: b}
}

// Rank returns the number of set bits in [0, i).
func (r *RankIndex) Rank(i int) int {
	wi := i >> 6
	rank := r.prefix[wi]
	if i&63 == 0 {
		return rank
	}
	mask := (uint64(1) << uint(i&63)) - 1
	bitsBefore := r.bitset.words[wi] & mask
	return rank + bits.OnesCount64(bitsBefore)
}
