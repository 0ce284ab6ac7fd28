package sensor_simulator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/growlab/growlab/internal/model"
	"github.com/growlab/growlab/pkg/dedup"
	"github.com/growlab/growlab/pkg/rabbitmq"
)

// ZoneSimulator publishes synthetic readings for one zone at a fixed
// interval and applies correction events addressed to it.
type ZoneSimulator struct {
	zone      *model.Zone
	generator *ConditionsGenerator
	publisher rabbitmq.IPublisher
	consumer  rabbitmq.IConsumer[model.CorrectionEvent]
	deduper   *dedup.Deduper
}

func NewZoneSimulator(consumer rabbitmq.IConsumer[model.CorrectionEvent], publisher rabbitmq.IPublisher,
	gen *ConditionsGenerator, zone *model.Zone) *ZoneSimulator {
	return &ZoneSimulator{
		zone:      zone,
		generator: gen,
		publisher: publisher,
		consumer:  consumer,
		deduper:   dedup.New(2*time.Minute, 10000),
	}
}

// Start runs the publish loop and the correction listener until the
// context is cancelled.
func (s *ZoneSimulator) Start(ctx context.Context, interval time.Duration) {
	s.consumer.SetHandler(s.handleCorrection)
	go s.consumer.ConsumeMessage(ctx)

	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-time.After(interval):
			evt := s.generator.Next(s.zone)
			log.Printf("sensor: pub raw greenhouse=%s zone=%s ph=%.2f ec=%.2f air=%.1f",
				evt.GreenhouseID, evt.ZoneID, evt.Conditions.PH, evt.Conditions.EC, evt.Conditions.AirTemp)
			payload, _ := json.Marshal(evt)
			if err := s.publisher.PublishMessage(string(payload)); err != nil {
				log.Printf("publish error: %v", err)
			}
		}
	}
}

func (s *ZoneSimulator) handleCorrection(_ string, msg mqtt.Message) error {
	// corrections ride QoS 1: identical redeliveries share a payload hash
	h := sha256.Sum256(msg.Payload())
	if s.deduper != nil && !s.deduper.ShouldProcess(hex.EncodeToString(h[:])) {
		return nil
	}

	var evt model.CorrectionEvent
	if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
		return fmt.Errorf("invalid CorrectionEvent: %w", err)
	}
	if evt.ZoneID != s.zone.ID || evt.GreenhouseID != s.zone.GreenhouseID {
		return nil
	}

	log.Printf("sensor: correction zone=%s %s -> %.2f for %s",
		s.zone.ID, evt.Parameter, evt.Target, evt.Duration)
	s.generator.Steer(evt.Parameter, evt.Target, evt.Duration)
	return nil
}
