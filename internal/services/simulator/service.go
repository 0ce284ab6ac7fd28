package simulator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/growlab/growlab/internal/model"
	"github.com/growlab/growlab/internal/simulation"
	"github.com/growlab/growlab/pkg/dedup"
	"github.com/growlab/growlab/pkg/rabbitmq"
)

// Service consumes aggregated zone conditions, scores them with the
// simulation engine and publishes one SimulationEvent per reading at
// QoS 1. The latest event per zone is kept for the status endpoint.
type Service struct {
	consumer  rabbitmq.IConsumer[model.ConditionsEvent]
	publisher rabbitmq.IPublisher
	zones     map[string]map[string]model.Zone // greenhouse -> zoneID -> Zone

	resultTopicTmpl string

	metrics *Metrics

	// guards latest
	mu     sync.RWMutex
	latest map[string]model.SimulationEvent // key = greenhouse|zone

	// drops QoS1 redeliveries by payload hash
	deduper *dedup.Deduper
}

func NewService(
	c rabbitmq.IConsumer[model.ConditionsEvent],
	p rabbitmq.IPublisher,
	zones map[string]map[string]model.Zone,
	resultTopicTmpl string,
	metrics *Metrics,
) (*Service, error) {
	if c == nil {
		return nil, errors.New("consumer is nil")
	}
	if p == nil {
		return nil, errors.New("publisher is nil")
	}
	if len(zones) == 0 {
		return nil, errors.New("no zones configured")
	}
	if strings.TrimSpace(resultTopicTmpl) == "" {
		resultTopicTmpl = "event/simulationResult/{greenhouse}/{zone}"
	}

	svc := &Service{
		consumer:        c,
		publisher:       p,
		zones:           zones,
		resultTopicTmpl: resultTopicTmpl,
		metrics:         metrics,
		latest:          make(map[string]model.SimulationEvent),
		deduper:         dedup.New(10*time.Minute, 20000),
	}
	c.SetHandler(svc.handleAggregated)
	return svc, nil
}

func (s *Service) Start(ctx context.Context) {
	go s.consumer.ConsumeMessage(ctx)
	<-ctx.Done()
}

func (s *Service) handleAggregated(_ string, msg mqtt.Message) error {
	h := sha256.Sum256(msg.Payload())
	if s.deduper != nil && !s.deduper.ShouldProcess(hex.EncodeToString(h[:])) {
		return nil
	}

	var evt model.ConditionsEvent
	if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
		log.Printf("simulator: bad payload: %v", err)
		return nil
	}
	if !evt.Aggregated {
		return nil
	}

	zone, ok := s.lookupZone(evt.GreenhouseID, evt.ZoneID)
	if !ok {
		log.Printf("simulator: unknown zone %s/%s", evt.GreenhouseID, evt.ZoneID)
		return nil
	}

	res, err := simulation.Simulate(evt.Conditions, zone.Crop)
	if err != nil {
		// an UnknownCropError here means the zone config drifted from
		// the registry; skip the reading, never kill the stream
		log.Printf("simulator: %s/%s: %v", evt.GreenhouseID, evt.ZoneID, err)
		return nil
	}

	out := model.SimulationEvent{
		ID:              uuid.NewString(),
		GreenhouseID:    zone.GreenhouseID,
		ZoneID:          zone.ID,
		Crop:            zone.Crop,
		Viable:          res.Viable,
		YieldPct:        res.YieldPct,
		ExpectedGrams:   res.ExpectedGrams,
		YieldKgM2:       res.YieldKgM2,
		ProjectedKg:     math.Round(res.YieldKgM2*zone.AreaM2*100) / 100,
		GrowthDays:      res.GrowthDays,
		Issues:          res.Issues,
		Recommendations: res.Recommendations,
		Timestamp:       time.Now().UTC(),
	}

	log.Printf("simulation: %s/%s crop=%s viable=%t yield=%d%% days=%d issues=%d",
		out.GreenhouseID, out.ZoneID, out.Crop, out.Viable, out.YieldPct, out.GrowthDays, len(out.Issues))

	s.mu.Lock()
	s.latest[key(out.GreenhouseID, out.ZoneID)] = out
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Observe(out)
	}

	return s.publishResult(out)
}

func (s *Service) publishResult(out model.SimulationEvent) error {
	b, _ := json.Marshal(out)
	topic := strings.NewReplacer("{greenhouse}", out.GreenhouseID, "{zone}", out.ZoneID).Replace(s.resultTopicTmpl)

	if err := s.publisher.PublishToQos(topic, 1, false, string(b)); err != nil {
		log.Printf("simulator: publish result error: %v", err)
		return err
	}
	return nil
}

func (s *Service) lookupZone(greenhouseID, zoneID string) (model.Zone, bool) {
	if m, ok := s.zones[greenhouseID]; ok {
		if z, ok2 := m[zoneID]; ok2 {
			return z, true
		}
	}
	return model.Zone{}, false
}

// ZoneStatuses returns the latest simulation per zone, ordered by
// greenhouse then zone for a stable HTTP payload.
func (s *Service) ZoneStatuses() []model.SimulationEvent {
	s.mu.RLock()
	out := make([]model.SimulationEvent, 0, len(s.latest))
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

func key(ghID, zoneID string) string { return ghID + "|" + zoneID }
