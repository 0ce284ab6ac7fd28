package simulation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/growlab/growlab/internal/model/entities"
)

// Per-parameter penalty weights. Higher weight, steeper penalty for the
// same relative deviation.
var yieldWeights = map[entities.Parameter]float64{
	entities.ParamPH:           1.2,
	entities.ParamEC:           1.5,
	entities.ParamAirTemp:      1.0,
	entities.ParamSolutionTemp: 1.0,
	entities.ParamLight:        1.3,
	entities.ParamCO2:          0.9,
	entities.ParamHumidity:     0.6,
	entities.ParamWaterLevel:   0.7,
	entities.ParamOxygen:       1.4,
}

// impactFloor keeps a single parameter from zeroing the whole yield on
// its own: the multiplier bottoms out at impactFloor^(1+weight).
const impactFloor = 0.01

// Extra multiplicative loss when EC and pH are both significantly off
// target at the same time (nutrient uptake coupling).
const (
	interactionFactor      = 0.9
	interactionECDeviation = 0.2
	interactionPHDeviation = 0.15
)

// linearScore places v between the critical bound (0) and the optimal
// bound (1). A degenerate range with no slack on the violated side
// scores 0 outright; this guard doubles as the divide-by-zero guard.
func linearScore(v float64, r entities.ParameterRange) float64 {
	switch {
	case v < r.Min:
		cl := r.CriticalLow()
		if cl >= r.Min {
			return 0
		}
		return clamp01((v - cl) / (r.Min - cl))
	case v > r.Max:
		ch := r.CriticalHigh()
		if ch <= r.Max {
			return 0
		}
		return clamp01((ch - v) / (ch - r.Max))
	}
	return 1
}

// parameterImpact is the weighted, super-linear multiplicative yield
// contribution of one parameter: max(floor, L)^(1+weight).
func parameterImpact(p entities.Parameter, l float64) float64 {
	return math.Pow(math.Max(impactFloor, l), 1+yieldWeights[p])
}

// evaluateYield walks all nine parameters, multiplies their impacts
// into one yield multiplier, applies the pH/EC interaction penalty and
// returns the rounded percentage plus the per-parameter deviations
// |1 - impact|.
func evaluateYield(cond entities.Conditions, profile entities.CropProfile, issues *[]string) (int, map[entities.Parameter]float64) {
	multiplier := 1.0
	deviation := make(map[entities.Parameter]float64, len(entities.Parameters))

	for _, p := range entities.Parameters {
		r := profile.Optimal[p]
		v := cond.Value(p)
		if r.Contains(v) {
			deviation[p] = 0
			continue
		}

		impact := parameterImpact(p, linearScore(v, r))
		multiplier *= impact
		deviation[p] = math.Abs(1 - impact)

		if impact < 1 {
			*issues = append(*issues, fmt.Sprintf("%s %s outside optimal range [%s, %s]: yield impact %d%%",
				p.Label(), fnum(v), fnum(r.Min), fnum(r.Max), int(math.Round(impact*100))))
		}
	}

	if deviation[entities.ParamEC] > interactionECDeviation && deviation[entities.ParamPH] > interactionPHDeviation {
		multiplier *= interactionFactor
		*issues = append(*issues, "combined pH/EC imbalance: extra 10% yield loss")
	}

	pct := int(math.Round(math.Max(0, multiplier*100)))
	return pct, deviation
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// fnum formats a reading compactly: "5.5", "4", "20000".
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
