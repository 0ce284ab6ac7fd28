package entities

// Zone represents one growing zone inside a greenhouse: a single crop
// on a known area, monitored as a unit.
type Zone struct {
	GreenhouseID string  `json:"greenhouse_id"`
	ID           string  `json:"id"` // unique zone identifier
	Crop         Crop    `json:"crop"`
	AreaM2       float64 `json:"area_m2,omitempty"` // growing area [m^2]
}

// Greenhouse groups the zones of one physical site.
type Greenhouse struct {
	ID    string `json:"id"`
	Zones []Zone `json:"zones"`
}

func (g *Greenhouse) GetZone(zoneID string) *Zone {
	for i := range g.Zones {
		if g.Zones[i].ID == zoneID {
			return &g.Zones[i]
		}
	}
	return nil
}
