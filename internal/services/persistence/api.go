package persistence

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/growlab/growlab/internal/model"
)

func NewHTTPMux(svc *Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	// GET /data/latest
	// Query params:
	//   source=auto|influx|cache   (default auto: try Influx, fall back to cache)
	//   minutes=<int>              (Influx lookback window, default 1440 = 24h)
	mux.HandleFunc("/data/latest", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		source := strings.ToLower(q.Get("source"))
		if source == "" {
			source = "auto"
		}
		minutes := 60 * 24
		if s := q.Get("minutes"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				minutes = n
			}
		}

		var list []model.ConditionsEvent
		var err error
		var used string

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if source == "influx" || source == "auto" {
			list, err = svc.QueryLatestFromInflux(ctx, minutes)
			if err == nil && len(list) > 0 {
				used = "influx"
			}
		}
		if used == "" && source != "influx" { // cache path
			list = svc.LatestCache()
			used = "cache"
		}
		if used == "" {
			http.Error(w, "influx unavailable", http.StatusServiceUnavailable)
			return
		}

		type outT struct {
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
			Aggregated   bool    `json:"aggregated"`
			Timestamp    string  `json:"timestamp"`
		}
		out := make([]outT, 0, len(list))
		for _, v := range list {
			out = append(out, outT{
				GreenhouseID: v.GreenhouseID,
				ZoneID:       v.ZoneID,
				Crop:         string(v.Crop),
				PH:           v.Conditions.PH,
				EC:           v.Conditions.EC,
				AirTemp:      v.Conditions.AirTemp,
				SolutionTemp: v.Conditions.SolutionTemp,
				Light:        v.Conditions.Light,
				CO2:          v.Conditions.CO2,
				Humidity:     v.Conditions.Humidity,
				WaterLevel:   v.Conditions.WaterLevel,
				Oxygen:       v.Conditions.Oxygen,
				Aggregated:   v.Aggregated,
				Timestamp:    v.Timestamp.UTC().Format(time.RFC3339),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Data-Source", used)
		_ = json.NewEncoder(w).Encode(out)
	})

	return mux
}
