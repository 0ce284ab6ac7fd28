package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growlab/growlab/internal/model/entities"
	msg "github.com/growlab/growlab/internal/model/messages"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

func capture(t *testing.T) (*MQTTHandler, *[]CommonEvent) {
	t.Helper()
	var got []CommonEvent
	h := NewMQTTHandler(func(e CommonEvent) { got = append(got, e) })
	return h, &got
}

func TestHandleSimulationResult(t *testing.T) {
	h, got := capture(t)

	evt := msg.SimulationEvent{
		ID:            "ev-1",
		GreenhouseID:  "gh-1",
		ZoneID:        "z-1",
		Crop:          entities.CropLettuce,
		Viable:        true,
		YieldPct:      87,
		ExpectedGrams: 392,
		YieldKgM2:     0.39,
		ProjectedKg:   3.9,
		GrowthDays:    54,
		Issues:        []string{"pH 5 outside optimal range [5.5, 6.5]: yield impact 41%"},
		Timestamp:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(evt)
	require.NoError(t, err)

	err = h.Handle("", &fakeMessage{topic: "event/simulationResult/gh-1/z-1", payload: payload})
	require.NoError(t, err)
	require.Len(t, *got, 1)

	e := (*got)[0]
	assert.Equal(t, "simulation.result", e.EventType)
	assert.Equal(t, "simulator-service", e.SourceService)
	assert.Equal(t, "gh-1", e.GreenhouseID)
	assert.Equal(t, "z-1", e.ZoneID)
	assert.Equal(t, "lettuce", e.Crop)
	assert.Equal(t, "info", e.Severity)
	assert.Equal(t, 87, e.Fields["yield_pct"])
	assert.Equal(t, 54, e.Fields["growth_days"])
	assert.Equal(t, 1, e.Fields["issues"])
	assert.Equal(t, evt.Timestamp, e.Timestamp)
}

func TestHandleNonViableIsWarning(t *testing.T) {
	h, got := capture(t)

	payload, err := json.Marshal(msg.SimulationEvent{
		GreenhouseID: "gh-1", ZoneID: "z-1", Crop: entities.CropBasil,
		Viable: false, YieldPct: 12,
	})
	require.NoError(t, err)

	require.NoError(t, h.Handle("", &fakeMessage{topic: "event/simulationResult/gh-1/z-1", payload: payload}))
	require.Len(t, *got, 1)
	assert.Equal(t, "warning", (*got)[0].Severity)
	assert.Equal(t, false, (*got)[0].Fields["viable"])
}

func TestHandleCorrection(t *testing.T) {
	h, got := capture(t)

	payload, err := json.Marshal(msg.CorrectionEvent{
		GreenhouseID: "gh-1",
		ZoneID:       "z-2",
		Parameter:    entities.ParamEC,
		Target:       1.8,
		Duration:     90 * time.Second,
	})
	require.NoError(t, err)

	require.NoError(t, h.Handle("", &fakeMessage{topic: "event/correction/gh-1/z-2", payload: payload}))
	require.Len(t, *got, 1)

	e := (*got)[0]
	assert.Equal(t, "zone.correction", e.EventType)
	assert.Equal(t, "operator", e.SourceService)
	assert.Equal(t, "ec", e.Fields["parameter"])
	assert.Equal(t, 1.8, e.Fields["target"])
	assert.Equal(t, 90.0, e.Fields["duration_sec"])
}

func TestHandleIDsFallBackToTopic(t *testing.T) {
	h, got := capture(t)

	// payload without identity, ids recovered from the topic path
	payload, err := json.Marshal(msg.SimulationEvent{Crop: entities.CropTomato, Viable: true})
	require.NoError(t, err)

	require.NoError(t, h.Handle("", &fakeMessage{topic: "event/simulationResult/gh-9/z-4", payload: payload}))
	require.Len(t, *got, 1)
	assert.Equal(t, "gh-9", (*got)[0].GreenhouseID)
	assert.Equal(t, "z-4", (*got)[0].ZoneID)
}

func TestHandleIgnoresForeignTopics(t *testing.T) {
	h, got := capture(t)
	require.NoError(t, h.Handle("", &fakeMessage{topic: "telemetry/conditions", payload: []byte(`{}`)}))
	assert.Empty(t, *got)
}

func TestHandleRejectsBadPayload(t *testing.T) {
	h, got := capture(t)
	err := h.Handle("", &fakeMessage{topic: "event/simulationResult/gh-1/z-1", payload: []byte(`{not json`)})
	assert.Error(t, err)
	assert.Empty(t, *got)
}

func TestEventToPointAlwaysHasAField(t *testing.T) {
	p := EventToPoint(CommonEvent{
		EventType:    "zone.correction",
		GreenhouseID: "gh-1",
		ZoneID:       "z-1",
		Timestamp:    time.Now(),
	})
	require.NotNil(t, p)
	assert.Equal(t, "system_event", p.Name())
	names := make([]string, 0, len(p.FieldList()))
	for _, f := range p.FieldList() {
		names = append(names, f.Key)
	}
	assert.Contains(t, names, "count")
}
