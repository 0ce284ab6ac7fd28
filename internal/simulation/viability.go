package simulation

import (
	"fmt"

	"github.com/growlab/growlab/internal/model/entities"
)

// checkViability tests every parameter against its survivable bounds.
// All nine are always checked so every critical violation is reported;
// values sitting exactly on a critical bound are still survivable.
func checkViability(cond entities.Conditions, profile entities.CropProfile, issues *[]string) bool {
	viable := true
	for _, p := range entities.Parameters {
		r := profile.Optimal[p]
		v := cond.Value(p)
		if r.Survivable(v) {
			continue
		}
		viable = false
		*issues = append(*issues, fmt.Sprintf("%s %s outside survivable range [%s, %s]: risk of death",
			p.Label(), fnum(v), fnum(r.CriticalLow()), fnum(r.CriticalHigh())))
	}
	return viable
}
