// Package simulation predicts whether a crop survives the measured
// conditions and how productive it will be. The whole package is pure
// and synchronous: no I/O, no shared mutable state, each call allocates
// its own result. Concurrent calls need no coordination.
package simulation

import (
	"math"

	"github.com/growlab/growlab/internal/model/entities"
)

// Result is one complete prediction. Fresh per call, owned by the caller.
type Result struct {
	Viable          bool     `json:"viable"`
	YieldPct        int      `json:"yield_pct"`      // 0..100
	ExpectedGrams   int      `json:"expected_grams"` // of profile max yield
	YieldKgM2       float64  `json:"yield_kg_m2"`    // per m^2 of growing area, 2 decimals
	GrowthDays      int      `json:"growth_days"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// Simulate resolves the crop's profile and scores the conditions
// against it. The only error is an unknown crop.
func Simulate(cond entities.Conditions, crop entities.Crop) (Result, error) {
	profile, err := LookupProfile(crop)
	if err != nil {
		return Result{}, err
	}
	return SimulateWithProfile(cond, profile), nil
}

// SimulateWithProfile runs viability, yield, growth time and
// recommendations in that fixed order and assembles the result.
func SimulateWithProfile(cond entities.Conditions, profile entities.CropProfile) Result {
	issues := make([]string, 0, 4)

	viable := checkViability(cond, profile, &issues)
	pct, _ := evaluateYield(cond, profile, &issues)

	grams := int(math.Round(profile.MaxYieldGrams * float64(pct) / 100))
	kgM2 := math.Round(float64(grams)/1000*100) / 100

	return Result{
		Viable:          viable,
		YieldPct:        pct,
		ExpectedGrams:   grams,
		YieldKgM2:       kgM2,
		GrowthDays:      estimateGrowthDays(cond, profile),
		Issues:          issues,
		Recommendations: recommend(cond, profile),
	}
}
