package event

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// Simulation is the payload exposed to the gateway.
type Simulation struct {
	ZoneID   string  `json:"zone_id,omitempty"`
	Crop     string  `json:"crop,omitempty"`
	YieldPct float64 `json:"yield_pct"`
	Time     string  `json:"time"` // RFC3339
}

type simQueryParams struct {
	Minutes   int
	Limit     int
	TimeoutMS int
}

func parseSim(r *http.Request, defMin, defLim, defTOms int) simQueryParams {
	q := r.URL.Query()
	get := func(k string, def, min, max int) int {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				if n < min {
					return min
				}
				if max > 0 && n > max {
					return max
				}
				return n
			}
		}
		return def
	}
	return simQueryParams{
		Minutes:   get("minutes", defMin, 1, 7*24*60),
		Limit:     get("limit", defLim, 1, 500),
		TimeoutMS: get("timeout_ms", defTOms, 200, 5000),
	}
}

func buildFlux(bucket string, minutes, limit int) string {
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._measurement == "system_event" and r.event_type == "simulation.result")
  |> filter(fn: (r) => r._field == "yield_pct")
  |> keep(columns: ["_time","_value","zone_id","crop"])
  |> sort(columns: ["_time"], desc: true)
  |> limit(n:%d)
`, bucket, minutes, limit)
}

func runSim(w http.ResponseWriter, r *http.Request, influx influxdb2.Client, org, bucket string, defMin, defLim int) {
	p := parseSim(r, defMin, defLim, 2000)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(p.TimeoutMS)*time.Millisecond)
	defer cancel()

	api := influx.QueryAPI(org)
	res, err := api.Query(ctx, buildFlux(bucket, p.Minutes, p.Limit))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Error", "influx-query-error")
		_, _ = w.Write([]byte("[]"))
		return
	}
	defer func() {
		_ = res.Close()
	}()

	out := make([]Simulation, 0, p.Limit)
	for res.Next() {
		rec := res.Record()

		var pct float64
		switch v := rec.Value().(type) {
		case float64:
			pct = v
		case int64:
			pct = float64(v)
		case int:
			pct = float64(v)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				pct = f
			}
		}

		var zoneID, crop string
		if v := rec.ValueByKey("zone_id"); v != nil {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				zoneID = s
			}
		}
		if v := rec.ValueByKey("crop"); v != nil {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				crop = s
			}
		}

		out = append(out, Simulation{
			ZoneID:   zoneID,
			Crop:     crop,
			YieldPct: pct,
			Time:     rec.Time().UTC().Format(time.RFC3339),
		})
	}
	if res.Err() != nil {
		w.Header().Set("X-Error", "influx-iter-error")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// NewSimulationLatestHandler serves
// GET /events/simulation/latest?limit=20[&minutes=1440]
func NewSimulationLatestHandler(influx influxdb2.Client, org, bucket string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runSim(w, r, influx, org, bucket, 1440, 20)
	})
}
