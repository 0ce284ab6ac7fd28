package simulation

import (
	"fmt"
	"math"

	"github.com/growlab/growlab/internal/model/entities"
)

// The combined advisory fires on absolute distance from the range
// midpoints. These thresholds are a separate heuristic from the yield
// interaction penalty (which works on normalized deviations) and are
// deliberately not derived from it.
const (
	advisoryECDistance = 0.8
	advisoryPHDistance = 0.4
)

const combinedAdvisory = "pH and EC are both far from target: correct them together, EC first, then re-check pH"

// recommend emits one corrective directive per out-of-range parameter,
// in the fixed parameter order, plus the combined pH/EC advisory when
// both are far from their midpoints.
func recommend(cond entities.Conditions, profile entities.CropProfile) []string {
	recs := make([]string, 0, 4)
	for _, p := range entities.Parameters {
		r := profile.Optimal[p]
		v := cond.Value(p)
		switch {
		case v < r.Min:
			recs = append(recs, fmt.Sprintf("Raise %s from %s into [%s, %s]",
				p.Label(), fnum(v), fnum(r.Min), fnum(r.Max)))
		case v > r.Max:
			recs = append(recs, fmt.Sprintf("Lower %s from %s into [%s, %s]",
				p.Label(), fnum(v), fnum(r.Min), fnum(r.Max)))
		}
	}

	ecMid := profile.Optimal[entities.ParamEC].Midpoint()
	phMid := profile.Optimal[entities.ParamPH].Midpoint()
	if math.Abs(cond.EC-ecMid) > advisoryECDistance && math.Abs(cond.PH-phMid) > advisoryPHDistance {
		recs = append(recs, combinedAdvisory)
	}
	return recs
}
