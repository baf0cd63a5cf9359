package solver

import (
	"fmt"
	"time"
)

// profileLogThreshold is how long a phase must take before Profile prints
// anything about it — short phases are noise.
const profileLogThreshold = time.Second

// Profile times a named sequence of build phases. Call Tic at the start of
// each phase (including a final "done") and any phase that ran longer than
// profileLogThreshold is logged when the next Tic (or Done) closes it out.
type Profile struct {
	name      string
	lastLabel string
	lastTime  time.Time
}

// NewProfile starts timing a sequence of phases under name.
func NewProfile(name string) *Profile {
	return &Profile{name: name, lastTime: time.Now()}
}

// Tic closes out the current phase (logging it if it ran long) and starts
// timing the next one, labeled label.
func (p *Profile) Tic(label string) {
	now := time.Now()
	if elapsed := now.Sub(p.lastTime); elapsed > profileLogThreshold {
		fmt.Printf("%s %s took %s\n", p.name, p.lastLabel, elapsed.Round(time.Millisecond))
	}
	p.lastLabel = label
	p.lastTime = now
}

// Done closes out the final phase.
func (p *Profile) Done() {
	p.Tic("done")
}

// BuildStats accumulates simple counters across a Solver's builds and
// cache lookups, for diagnostics.
type BuildStats struct {
	Builds int
	Saved  int
	Loaded int
}

func (b *BuildStats) recordBuild() { b.Builds++ }
func (b *BuildStats) recordSave()  { b.Saved++ }
func (b *BuildStats) recordLoad()  { b.Loaded++ }
