package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

/************* MODELS (dashboard DTOs) *************/

type Zone struct {
	GreenhouseID    string   `json:"greenhouse_id"`
	ZoneID          string   `json:"zone_id"`
	Crop            string   `json:"crop"`
	Viable          bool     `json:"viable"`
	YieldPct        int      `json:"yield_pct"`
	ExpectedGrams   int      `json:"expected_grams"`
	YieldKgM2       float64  `json:"yield_kg_m2"`
	ProjectedKg     float64  `json:"projected_kg,omitempty"`
	GrowthDays      int      `json:"growth_days"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

type Simulation struct {
	ZoneID   string  `json:"zone_id,omitempty"`
	Crop     string  `json:"crop,omitempty"`
	YieldPct float64 `json:"yield_pct"`
	Time     string  `json:"time"` // RFC3339
}

type Condition struct {
	GreenhouseID string  `json:"greenhouse_id"`
	ZoneID       string  `json:"zone_id"`
	Crop         string  `json:"crop"`
	PH           float64 `json:"ph"`
	EC           float64 `json:"ec"`
	AirTemp      float64 `json:"air_temp"`
	SolutionTemp float64 `json:"solution_temp"`
	Light        float64 `json:"light"`
	CO2          float64 `json:"co2"`
	Humidity     float64 `json:"humidity"`
	WaterLevel   float64 `json:"water_level"`
	Oxygen       float64 `json:"oxygen"`
	Timestamp    string  `json:"timestamp"`
}

type Payload struct {
	Zones       []Zone       `json:"zones"`
	Simulations []Simulation `json:"simulations"`
	Conditions  []Condition  `json:"conditions"`
}

/************* UPSTREAM REST CLIENT *************/

type Upstream struct {
	http *http.Client
}

func NewUpstream(timeoutMs int) *Upstream {
	return &Upstream{
		http: &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
	}
}

func (u *Upstream) getJSON(ctx context.Context, url string, out any) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	res, err := u.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("GET %s -> %s", url, res.Status)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// Simulator: latest simulation per zone
func (u *Upstream) GetZones(ctx context.Context, base string) ([]Zone, error) {
	var out []Zone
	if err := u.getJSON(ctx, base+"/zones/status", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Event-Service: recent simulation history from Influx
func (u *Upstream) GetSimulations(ctx context.Context, base string) ([]Simulation, error) {
	var out []Simulation
	if err := u.getJSON(ctx, base+"/events/simulation/latest", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Persistence-Service: latest reading per zone
func (u *Upstream) GetConditions(ctx context.Context, base string) ([]Condition, error) {
	var out []Condition
	if err := u.getJSON(ctx, base+"/data/latest", &out); err != nil {
		return nil, err
	}
	return out, nil
}

/************* MAIN *************/

var (
	eventCB       *gobreaker.CircuitBreaker
	simulatorCB   *gobreaker.CircuitBreaker
	persistenceCB *gobreaker.CircuitBreaker

	lastGoodMu   sync.RWMutex
	lastGoodSims []Simulation
)

func storeLastGoodSims(s []Simulation) {
	lastGoodMu.Lock()
	lastGoodSims = s
	lastGoodMu.Unlock()
}

func loadLastGoodSims() []Simulation {
	lastGoodMu.RLock()
	defer lastGoodMu.RUnlock()
	return lastGoodSims
}

func mkCB(name string, fails, openMs, intervalMs int) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: time.Duration(intervalMs) * time.Millisecond,
		Timeout:  time.Duration(openMs) * time.Millisecond,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
	})
}

func main() {
	cfg := loadConfig()

	eventCB = mkCB("event-service", cfg.CBEventFails, cfg.CBEventOpenMs, cfg.CBEventIntervalMs)
	simulatorCB = mkCB("simulator", cfg.CBRestFails, cfg.CBRestOpenMs, cfg.CBRestIntervalMs)
	persistenceCB = mkCB("persistence-service", cfg.CBRestFails, cfg.CBRestOpenMs, cfg.CBRestIntervalMs)

	http.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	http.HandleFunc("/dashboard/data", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, cancel := context.WithTimeout(r.Context(), time.Duration(cfg.TimeoutMs)*time.Millisecond)
		defer cancel()

		up := NewUpstream(cfg.TimeoutMs)

		// === (1) SIMULATION HISTORY: CB with last-good fallback ===
		var sims []Simulation
		if res, err := eventCB.Execute(func() (any, error) {
			s, err := up.GetSimulations(ctx, cfg.EventURL)
			if err != nil {
				return nil, err
			}
			if len(s) == 0 {
				return nil, fmt.Errorf("empty simulations")
			}
			return s, nil
		}); err == nil {
			sims = res.([]Simulation)
			storeLastGoodSims(sims)
		} else {
			sims = loadLastGoodSims()
		}

		// === (2) ZONES / CONDITIONS: each behind its own CB, no fallback ===
		var (
			zones      []Zone
			conditions []Condition
		)

		if res, err := simulatorCB.Execute(func() (any, error) {
			z, err := up.GetZones(ctx, cfg.SimulatorURL)
			if err != nil {
				return nil, err
			}
			if len(z) == 0 {
				return nil, fmt.Errorf("empty zone statuses")
			}
			return z, nil
		}); err == nil {
			zones = res.([]Zone)
		}

		if res, err := persistenceCB.Execute(func() (any, error) {
			c, err := up.GetConditions(ctx, cfg.PersistenceURL)
			if err != nil {
				return nil, err
			}
			if len(c) == 0 {
				return nil, fmt.Errorf("empty conditions")
			}
			return c, nil
		}); err == nil {
			conditions = res.([]Condition)
		}

		resp := Payload{
			Zones:       zones,
			Simulations: sims,
			Conditions:  conditions,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)

		log.Printf("GET /dashboard/data [%dms] cb[event]=%v cb[sim]=%v cb[pers]=%v zones=%d sims=%d conds=%d",
			time.Since(start).Milliseconds(), eventCB.State(), simulatorCB.State(), persistenceCB.State(),
			len(resp.Zones), len(resp.Simulations), len(resp.Conditions))
	})

	addr := ":" + cfg.Port
	log.Printf("gateway listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
