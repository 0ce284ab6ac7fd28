package simulator

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growlab/growlab/internal/model"
	"github.com/growlab/growlab/internal/model/entities"
	"github.com/growlab/growlab/internal/simulation"
)

// ---- test doubles ----

type stubConsumer struct {
	handler func(topic string, message mqtt.Message) error
}

func (c *stubConsumer) ConsumeMessage(ctx context.Context) { <-ctx.Done() }
func (c *stubConsumer) SetHandler(h func(topic string, message mqtt.Message) error) {
	c.handler = h
}

type published struct {
	topic   string
	qos     byte
	payload string
}

type stubPublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (p *stubPublisher) PublishMessage(message interface{}) error { return nil }
func (p *stubPublisher) PublishToQos(topic string, qos byte, retained bool, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{topic: topic, qos: qos, payload: message})
	return nil
}
func (p *stubPublisher) Close() {}

func (p *stubPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.msgs...)
}

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

// ---- helpers ----

func testZones() map[string]map[string]model.Zone {
	return map[string]map[string]model.Zone{
		"gh-1": {
			"z-1": {GreenhouseID: "gh-1", ID: "z-1", Crop: entities.CropLettuce, AreaM2: 10},
		},
	}
}

func newTestService(t *testing.T) (*Service, *stubConsumer, *stubPublisher) {
	t.Helper()
	c := &stubConsumer{}
	p := &stubPublisher{}
	svc, err := NewService(c, p, testZones(), "", NewMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)
	require.NotNil(t, c.handler, "handler must be injected by the constructor")
	return svc, c, p
}

func aggregatedPayload(t *testing.T, cond entities.Conditions) []byte {
	t.Helper()
	b, err := json.Marshal(model.ConditionsEvent{
		GreenhouseID: "gh-1",
		ZoneID:       "z-1",
		Crop:         entities.CropLettuce,
		Conditions:   cond,
		Aggregated:   true,
		Timestamp:    time.Now(),
	})
	require.NoError(t, err)
	return b
}

// ---- tests ----

func TestServicePublishesSimulationResult(t *testing.T) {
	_, c, p := newTestService(t)

	profile, err := simulation.LookupProfile(entities.CropLettuce)
	require.NoError(t, err)
	payload := aggregatedPayload(t, simulation.OptimalConditions(profile))

	require.NoError(t, c.handler("", &fakeMessage{topic: "telemetry/aggregated/gh-1/z-1", payload: payload}))

	msgs := p.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, "event/simulationResult/gh-1/z-1", msgs[0].topic)
	assert.Equal(t, byte(1), msgs[0].qos)

	var out model.SimulationEvent
	require.NoError(t, json.Unmarshal([]byte(msgs[0].payload), &out))
	assert.NotEmpty(t, out.ID)
	assert.True(t, out.Viable)
	assert.Equal(t, 100, out.YieldPct)
	assert.Equal(t, 450, out.ExpectedGrams)
	assert.Equal(t, 0.45, out.YieldKgM2)
	assert.Equal(t, 4.5, out.ProjectedKg) // 0.45 kg/m2 on 10 m2
	assert.Equal(t, 50, out.GrowthDays)
	assert.Empty(t, out.Issues)
}

func TestServiceSkipsDuplicateRedelivery(t *testing.T) {
	_, c, p := newTestService(t)

	profile, err := simulation.LookupProfile(entities.CropLettuce)
	require.NoError(t, err)
	payload := aggregatedPayload(t, simulation.OptimalConditions(profile))
	msg := &fakeMessage{topic: "telemetry/aggregated/gh-1/z-1", payload: payload}

	require.NoError(t, c.handler("", msg))
	require.NoError(t, c.handler("", msg)) // QoS1 redelivery, same payload

	assert.Len(t, p.all(), 1)
}

func TestServiceIgnoresRawReadings(t *testing.T) {
	_, c, p := newTestService(t)

	b, err := json.Marshal(model.ConditionsEvent{
		GreenhouseID: "gh-1", ZoneID: "z-1", Crop: entities.CropLettuce, Aggregated: false,
	})
	require.NoError(t, err)
	require.NoError(t, c.handler("", &fakeMessage{payload: b}))
	assert.Empty(t, p.all())
}

func TestServiceIgnoresUnknownZoneAndBadPayload(t *testing.T) {
	_, c, p := newTestService(t)

	b, err := json.Marshal(model.ConditionsEvent{
		GreenhouseID: "gh-9", ZoneID: "z-9", Aggregated: true,
	})
	require.NoError(t, err)
	assert.NoError(t, c.handler("", &fakeMessage{payload: b}))
	assert.NoError(t, c.handler("", &fakeMessage{payload: []byte("not json")}))
	assert.Empty(t, p.all())
}

func TestServiceZoneStatuses(t *testing.T) {
	svc, c, _ := newTestService(t)
	assert.Empty(t, svc.ZoneStatuses())

	profile, err := simulation.LookupProfile(entities.CropLettuce)
	require.NoError(t, err)
	cond := simulation.OptimalConditions(profile)
	cond.PH = 5.0
	require.NoError(t, c.handler("", &fakeMessage{payload: aggregatedPayload(t, cond)}))

	statuses := svc.ZoneStatuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, "z-1", statuses[0].ZoneID)
	assert.Equal(t, 41, statuses[0].YieldPct)
	require.Len(t, statuses[0].Recommendations, 1)
}
