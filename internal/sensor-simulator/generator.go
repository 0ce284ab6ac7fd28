package sensor_simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/growlab/growlab/internal/model"
	"github.com/growlab/growlab/internal/model/entities"
	"github.com/growlab/growlab/internal/simulation"
)

// ====== Tunables ======
const (
	// driftPerMin: free-drift step per minute, as a fraction of the
	// optimal span of each parameter.
	driftPerMin = 0.02

	// steerPerMin: fraction of the remaining gap closed per minute
	// while a correction is active.
	steerPerMin = 0.15

	// seedJitter: spread of the initial reading around the optimal
	// midpoint, as a fraction of the optimal span.
	seedJitter = 0.25
)

type steering struct {
	target float64
	until  time.Time
}

// ConditionsGenerator keeps the drifting environmental state of one
// zone. Readings random-walk inside the survivable span; an active
// correction steers one parameter toward its target instead.
type ConditionsGenerator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	profile entities.CropProfile
	seeded  bool
	last    time.Time
	cond    entities.Conditions
	steer   map[entities.Parameter]steering
}

// NewConditionsGenerator creates a generator for one zone's crop
// profile. rng may be seeded for reproducible runs.
func NewConditionsGenerator(profile entities.CropProfile, rng *rand.Rand) *ConditionsGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ConditionsGenerator{
		rng:     rng,
		profile: profile,
		steer:   make(map[entities.Parameter]steering),
	}
}

// Next advances the internal state and returns a reading for the zone.
func (g *ConditionsGenerator) Next(zone *model.Zone) model.ConditionsEvent {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC()
	if !g.seeded {
		g.seed()
		g.last = now
	}

	dtMin := now.Sub(g.last).Minutes()
	if dtMin < 0 {
		dtMin = 0
	}
	g.last = now

	for _, p := range entities.Parameters {
		r := g.profile.Optimal[p]
		v := g.cond.Value(p)

		if s, ok := g.steer[p]; ok && now.Before(s.until) {
			// close part of the gap toward the correction target
			v += (s.target - v) * minf(1, steerPerMin*dtMin)
		} else {
			delete(g.steer, p)
			span := r.Max - r.Min
			v += (g.rng.Float64()*2 - 1) * driftPerMin * span * dtMin
		}

		g.cond.Set(p, clampRange(v, r.CriticalLow(), r.CriticalHigh()))
	}

	return model.ConditionsEvent{
		GreenhouseID: zone.GreenhouseID,
		ZoneID:       zone.ID,
		Crop:         zone.Crop,
		Conditions:   g.cond,
		Aggregated:   false,
		Timestamp:    now,
	}
}

// Steer makes one parameter converge toward target until the duration
// elapses, after which it resumes free drift.
func (g *ConditionsGenerator) Steer(p entities.Parameter, target float64, d time.Duration) {
	if g == nil || d <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.steer[p] = steering{target: target, until: time.Now().Add(d)}
}

func (g *ConditionsGenerator) seed() {
	g.cond = simulation.OptimalConditions(g.profile)
	for _, p := range entities.Parameters {
		r := g.profile.Optimal[p]
		span := r.Max - r.Min
		v := g.cond.Value(p) + (g.rng.Float64()*2-1)*seedJitter*span
		g.cond.Set(p, clampRange(v, r.CriticalLow(), r.CriticalHigh()))
	}
	g.seeded = true
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
