package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/growlab/growlab/internal/model"
	"github.com/growlab/growlab/internal/model/entities"
	"github.com/growlab/growlab/pkg/rabbitmq"
)

type InfluxConfig struct {
	InfluxURL       string
	InfluxToken     string
	InfluxOrg       string
	InfluxBucket    string
	MeasurementMode string // "per-zone" | "single"
	MeasurementName string // base name, e.g. "zone_conditions"
}

// Service consumes aggregated zone readings and persists them to
// InfluxDB, keeping an in-memory copy of the latest reading per zone
// as a fallback for when Influx is unreachable.
type Service struct {
	consumer        rabbitmq.IConsumer[model.ConditionsEvent]
	client          influxdb2.Client
	writeAPI        api.WriteAPIBlocking
	queryAPI        api.QueryAPI
	bucket          string
	measurementMode string
	measurementName string

	mu     sync.RWMutex
	latest map[string]model.ConditionsEvent // "greenhouse|zone" -> last event
}

func NewService(consumer rabbitmq.IConsumer[model.ConditionsEvent], client influxdb2.Client, cfg InfluxConfig) (*Service, error) {
	if consumer == nil {
		return nil, fmt.Errorf("nil consumer")
	}
	if cfg.InfluxURL == "" || cfg.InfluxOrg == "" || cfg.InfluxBucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}
	name := cfg.MeasurementName
	if name == "" {
		name = "zone_conditions"
	}
	return &Service{
		consumer:        consumer,
		client:          client,
		writeAPI:        client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		queryAPI:        client.QueryAPI(cfg.InfluxOrg),
		bucket:          cfg.InfluxBucket,
		measurementMode: cfg.MeasurementMode,
		measurementName: name,
		latest:          make(map[string]model.ConditionsEvent),
	}, nil
}

func (s *Service) Start(ctx context.Context) {
	s.consumer.SetHandler(func(topic string, msg mqtt.Message) error {
		var evt model.ConditionsEvent
		if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
			log.Printf("persistence: invalid JSON on %s: %v", topic, err)
			return nil // keep the stream moving
		}
		if evt.GreenhouseID == "" || evt.ZoneID == "" {
			log.Printf("persistence: event without identity on %s, skipped", topic)
			return nil
		}

		measurement := s.measurementName
		if s.measurementMode == "per-zone" {
			measurement = measurement + "_" + evt.ZoneID
		}
		measurement = sanitizeMeasurement(measurement)

		t := evt.Timestamp
		if t.IsZero() {
			t = time.Now()
		}

		tags := map[string]string{
			"greenhouse_id": evt.GreenhouseID,
			"zone_id":       evt.ZoneID,
			"crop":          string(evt.Crop),
		}
		fields := map[string]interface{}{
			"aggregated": evt.Aggregated,
		}
		for _, p := range entities.Parameters {
			fields[string(p)] = evt.Conditions.Value(p)
		}

		point := influxdb2.NewPoint(measurement, tags, fields, t)
		if err := s.writeAPI.WritePoint(ctx, point); err != nil {
			log.Printf("persistence: write error: %v", err)
			return err
		}

		s.mu.Lock()
		s.latest[evt.GreenhouseID+"|"+evt.ZoneID] = evt
		s.mu.Unlock()

		log.Printf("persistence: wrote %s greenhouse=%s zone=%s", measurement, evt.GreenhouseID, evt.ZoneID)
		return nil
	})

	s.consumer.ConsumeMessage(ctx)
}

// LatestCache returns the last event seen for every zone, sorted by
// greenhouse then zone for stable output.
func (s *Service) LatestCache() []model.ConditionsEvent {
	s.mu.RLock()
	out := make([]model.ConditionsEvent, 0, len(s.latest))
	for _, evt := range s.latest {
		out = append(out, evt)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].GreenhouseID != out[j].GreenhouseID {
			return out[i].GreenhouseID < out[j].GreenhouseID
		}
		return out[i].ZoneID < out[j].ZoneID
	})
	return out
}

// QueryLatestFromInflux reads the newest reading per zone written in
// the last `minutes` minutes.
func (s *Service) QueryLatestFromInflux(ctx context.Context, minutes int) ([]model.ConditionsEvent, error) {
	if minutes <= 0 {
		minutes = 60 * 24
	}

	measFilter := fmt.Sprintf(`r._measurement == %q`, s.measurementName)
	if s.measurementMode == "per-zone" {
		measFilter = fmt.Sprintf(`r._measurement =~ /^%s/`, s.measurementName)
	}

	flux := fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => %s)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> group(columns: ["greenhouse_id", "zone_id"])
  |> sort(columns: ["_time"], desc: true)
  |> limit(n: 1)
`, s.bucket, minutes, measFilter)

	res, err := s.queryAPI.Query(ctx, flux)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Close() }()

	var out []model.ConditionsEvent
	for res.Next() {
		rec := res.Record()
		evt := model.ConditionsEvent{
			GreenhouseID: asString(rec.ValueByKey("greenhouse_id")),
			ZoneID:       asString(rec.ValueByKey("zone_id")),
			Crop:         entities.Crop(asString(rec.ValueByKey("crop"))),
			Timestamp:    rec.Time(),
		}
		if b, ok := rec.ValueByKey("aggregated").(bool); ok {
			evt.Aggregated = b
		}
		for _, p := range entities.Parameters {
			if f, ok := rec.ValueByKey(string(p)).(float64); ok {
				evt.Conditions.Set(p, f)
			}
		}
		out = append(out, evt)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GreenhouseID != out[j].GreenhouseID {
			return out[i].GreenhouseID < out[j].GreenhouseID
		}
		return out[i].ZoneID < out[j].ZoneID
	})
	return out, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func sanitizeMeasurement(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == ':', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
