package event

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	msg "github.com/growlab/growlab/internal/model/messages"
)

// CommonEvent is the normalized shape every broker event is reduced to
// before it becomes an InfluxDB point.
type CommonEvent struct {
	EventType     string // simulation.result | zone.correction
	SourceService string // simulator-service | operator
	GreenhouseID  string
	ZoneID        string
	Crop          string
	Severity      string // info|warning|error
	Fields        map[string]interface{}
	Timestamp     time.Time
}

// MQTTHandler turns MQTT messages into CommonEvents and hands them to
// the sink (Influx).
type MQTTHandler struct{ sink func(CommonEvent) }

func NewMQTTHandler(sink func(CommonEvent)) *MQTTHandler { return &MQTTHandler{sink: sink} }

func (h *MQTTHandler) Handle(_ string, m mqtt.Message) error {
	topic := m.Topic()
	payload := m.Payload()

	var (
		evt CommonEvent
		err error
	)
	switch {
	case strings.HasPrefix(topic, "event/simulationResult/"):
		evt, err = decodeSimulationResult(topic, payload)
	case strings.HasPrefix(topic, "event/correction/"):
		evt, err = decodeCorrection(topic, payload)
	default:
		return nil // not ours
	}
	if err != nil {
		return err
	}
	if h.sink != nil {
		h.sink(evt)
	}
	return nil
}

func decodeSimulationResult(topic string, payload []byte) (CommonEvent, error) {
	var r msg.SimulationEvent
	if err := json.Unmarshal(payload, &r); err != nil {
		return CommonEvent{}, err
	}
	ghID, zoneID := pickIDs(topic, r.GreenhouseID, r.ZoneID, "event/simulationResult/")
	if ghID == "" || zoneID == "" {
		return CommonEvent{}, errors.New("simulationResult: missing greenhouse/zone")
	}
	sev := "info"
	if !r.Viable {
		sev = "warning"
	}
	return CommonEvent{
		EventType:     "simulation.result",
		SourceService: "simulator-service",
		GreenhouseID:  ghID,
		ZoneID:        zoneID,
		Crop:          string(r.Crop),
		Severity:      sev,
		Fields: map[string]interface{}{
			"viable":          r.Viable,
			"yield_pct":       r.YieldPct,
			"expected_grams":  r.ExpectedGrams,
			"yield_kg_m2":     r.YieldKgM2,
			"projected_kg":    r.ProjectedKg,
			"growth_days":     r.GrowthDays,
			"issues":          len(r.Issues),
			"recommendations": len(r.Recommendations),
		},
		Timestamp: r.Timestamp,
	}, nil
}

func decodeCorrection(topic string, payload []byte) (CommonEvent, error) {
	var c msg.CorrectionEvent
	if err := json.Unmarshal(payload, &c); err != nil {
		return CommonEvent{}, err
	}
	ghID, zoneID := pickIDs(topic, c.GreenhouseID, c.ZoneID, "event/correction/")
	if ghID == "" || zoneID == "" {
		return CommonEvent{}, errors.New("correction: missing greenhouse/zone")
	}
	return CommonEvent{
		EventType:     "zone.correction",
		SourceService: "operator",
		GreenhouseID:  ghID,
		ZoneID:        zoneID,
		Severity:      "info",
		Fields: map[string]interface{}{
			"parameter":    string(c.Parameter),
			"target":       c.Target,
			"duration_sec": c.Duration.Seconds(),
		},
		Timestamp: c.Timestamp,
	}, nil
}

// pickIDs prefers the payload ids, falling back to topic
// "prefix/{greenhouse}/{zone}".
func pickIDs(topic, ghID, zoneID, prefix string) (string, string) {
	if strings.TrimSpace(ghID) != "" && strings.TrimSpace(zoneID) != "" {
		return ghID, zoneID
	}
	suffix := strings.TrimPrefix(topic, prefix)
	parts := strings.Split(suffix, "/")
	if len(parts) >= 2 {
		return parts[0], parts[1]
	}
	return ghID, zoneID
}
