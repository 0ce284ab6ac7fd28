package entities

// ParameterRange is the optimal interval for one parameter, plus an
// optional wider critical (survivable) interval. A missing critical
// bound means the critical bound coincides with the optimal one.
type ParameterRange struct {
	Min         float64  `json:"min"`
	Max         float64  `json:"max"`
	CriticalMin *float64 `json:"critical_min,omitempty"`
	CriticalMax *float64 `json:"critical_max,omitempty"`
}

// CriticalLow returns the effective lower survivable bound.
func (r ParameterRange) CriticalLow() float64 {
	if r.CriticalMin != nil {
		return *r.CriticalMin
	}
	return r.Min
}

// CriticalHigh returns the effective upper survivable bound.
func (r ParameterRange) CriticalHigh() float64 {
	if r.CriticalMax != nil {
		return *r.CriticalMax
	}
	return r.Max
}

// Contains reports whether v lies inside the optimal interval (inclusive).
func (r ParameterRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Survivable reports whether v lies inside the critical interval (inclusive).
func (r ParameterRange) Survivable(v float64) bool {
	return v >= r.CriticalLow() && v <= r.CriticalHigh()
}

// Midpoint returns the center of the optimal interval.
func (r ParameterRange) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}
