package simulator

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/growlab/growlab/internal/model"
	"github.com/growlab/growlab/internal/simulation"
)

// LoadZones reads the zones file: {greenhouseID: [{id, crop, area_m2}]}.
// Accepts "area_m2" or "area" for the area field. Every crop must exist
// in the profile registry; a typo here would otherwise surface as a
// skipped reading at runtime.
func LoadZones(path string) (map[string]map[string]model.Zone, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m map[string][]map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	out := make(map[string]map[string]model.Zone, len(m))
	for ghID, list := range m {
		inner := make(map[string]model.Zone, len(list))
		for _, rec := range list {
			var z model.Zone
			if v, ok := rec["id"].(string); ok {
				z.ID = v
			}
			if z.ID == "" {
				return nil, fmt.Errorf("zone without id in greenhouse %s", ghID)
			}
			z.GreenhouseID = ghID

			if v, ok := rec["crop"].(string); ok {
				z.Crop = model.Crop(v)
			}
			if _, err := simulation.LookupProfile(z.Crop); err != nil {
				return nil, fmt.Errorf("greenhouse %s zone %s: %w", ghID, z.ID, err)
			}

			area := toF64(rec["area_m2"])
			if area == 0 {
				area = toF64(rec["area"])
			}
			z.AreaM2 = area

			inner[z.ID] = z
		}
		out[ghID] = inner
	}
	return out, nil
}

func toF64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", "."), 64); err == nil {
			return f
		}
	}
	return 0
}
