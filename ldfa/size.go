package ldfa

import "math/big"

// completionsExact returns, for layer k, the number of strings over
// shape[k:] — i.e. the number of ways to complete a string once standing at
// layer k, regardless of state. Used to resolve sink counts: an Accept
// sink reached at layer k accepts all completionsExact(k) suffixes.
func (d *LDFA) completionsExact() []*big.Int {
	n := d.Dim()
	out := make([]*big.Int, n+1)
	out[n] = big.NewInt(1)
	for k := n - 1; k >= 0; k-- {
		out[k] = new(big.Int).Mul(out[k+1], big.NewInt(int64(d.shape[k])))
	}
	return out
}

// Size returns the number of accepted strings as a float64. For shapes
// large enough to overflow float64 precision, prefer SizeExact.
func (d *LDFA) Size() float64 {
	exact := d.SizeExact()
	f := new(big.Float).SetInt(exact)
	v, _ := f.Float64()
	return v
}

// SizeExact returns the exact number of accepted strings via a backward
// dynamic program over layers: count[k][state] = sum over characters c of
// count[k+1][transition(k,state,c)], with sink base cases count[Reject]=0
// and count[Accept]=completionsExact(k).
func (d *LDFA) SizeExact() *big.Int {
	completions := d.completionsExact()

	if IsSink(d.initialState) {
		if d.initialState == Accept {
			return new(big.Int).Set(completions[0])
		}
		return big.NewInt(0)
	}

	n := d.Dim()
	// counts[k+1] indexed by local real-state index at layer k+1; computed
	// from the last layer backward. At the virtual terminal layer (n),
	// there are no real states, so counts start as nil and every
	// transition target in layer n must be a sink.
	var next []*big.Int
	for k := n - 1; k >= 0; k-- {
		size := d.LayerSize(k)
		cur := make([]*big.Int, size)
		for i := 0; i < size; i++ {
			state := StateID(i) + FirstRealState
			total := big.NewInt(0)
			for c := 0; c < d.shape[k]; c++ {
				target := d.Transition(k, state, c)
				total.Add(total, d.resolveCount(target, k+1, next, completions))
			}
			cur[i] = total
		}
		next = cur
	}

	idx := int(d.initialState - FirstRealState)
	return next[idx]
}

// resolveCount returns the accepted-suffix count for landing on target at
// layer, given the already-computed counts for layer's real states.
func (d *LDFA) resolveCount(target StateID, layer int, counts []*big.Int, completions []*big.Int) *big.Int {
	switch target {
	case Accept:
		return new(big.Int).Set(completions[layer])
	case Reject:
		return big.NewInt(0)
	default:
		return counts[int(target-FirstRealState)]
	}
}
