package aggregator

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/growlab/growlab/internal/model/entities"
	"github.com/growlab/growlab/internal/model/messages"
	"github.com/growlab/growlab/pkg/rabbitmq"
)

// DataAggregatorService buffers raw zone readings and periodically
// publishes the per-zone average of every parameter as one aggregated
// event at QoS 1.
type DataAggregatorService struct {
	consumer            rabbitmq.IConsumer[messages.ConditionsEvent]
	publisher           rabbitmq.IPublisher
	buffer              map[string][]messages.ConditionsEvent // key greenhouse|zone
	mutex               sync.Mutex
	aggregationInterval time.Duration
	topicTmpl           string
}

func NewDataAggregatorService(consumer rabbitmq.IConsumer[messages.ConditionsEvent], publisher rabbitmq.IPublisher,
	aggregationInterval time.Duration, topicTmpl string) *DataAggregatorService {
	if strings.TrimSpace(topicTmpl) == "" {
		topicTmpl = "telemetry/aggregated/{greenhouse}/{zone}"
	}
	return &DataAggregatorService{
		consumer:            consumer,
		publisher:           publisher,
		aggregationInterval: aggregationInterval,
		topicTmpl:           topicTmpl,
		buffer:              make(map[string][]messages.ConditionsEvent),
	}
}

func (d *DataAggregatorService) messageHandler(_ string, message mqtt.Message) error {
	var evt messages.ConditionsEvent
	if err := json.Unmarshal(message.Payload(), &evt); err != nil {
		log.Printf("aggregator: bad payload: %v", err)
		return err
	}
	if evt.Aggregated {
		return nil // never re-buffer our own output
	}

	k := evt.GreenhouseID + "|" + evt.ZoneID
	d.mutex.Lock()
	d.buffer[k] = append(d.buffer[k], evt)
	d.mutex.Unlock()
	return nil
}

func (d *DataAggregatorService) Start(ctx context.Context) {
	d.consumer.SetHandler(d.messageHandler)
	go d.consumer.ConsumeMessage(ctx)

	ticker := time.NewTicker(d.aggregationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.publisher.Close()
			return
		case <-ticker.C:
			d.aggregateAndPublish()
		}
	}
}

func (d *DataAggregatorService) aggregateAndPublish() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for k, readings := range d.buffer {
		if len(readings) == 0 {
			continue
		}

		out := aggregate(readings)

		b, err := json.Marshal(out)
		if err != nil {
			log.Printf("aggregator: marshal err %v", err)
			continue
		}
		topic := strings.NewReplacer("{greenhouse}", out.GreenhouseID, "{zone}", out.ZoneID).Replace(d.topicTmpl)
		if err := d.publisher.PublishToQos(topic, 1, false, string(b)); err != nil {
			log.Printf("aggregator: publish err %v", err)
		} else {
			log.Printf("aggregator: published %s from %d readings", topic, len(readings))
		}

		// reset the window
		d.buffer[k] = readings[:0]
	}
}

// aggregate averages each of the nine parameters independently over
// the window; identity fields come from the newest reading.
func aggregate(readings []messages.ConditionsEvent) messages.ConditionsEvent {
	var avg entities.Conditions
	n := float64(len(readings))
	for _, p := range entities.Parameters {
		sum := 0.0
		for _, r := range readings {
			sum += r.Conditions.Value(p)
		}
		avg.Set(p, sum/n)
	}

	last := readings[len(readings)-1]
	return messages.ConditionsEvent{
		GreenhouseID: last.GreenhouseID,
		ZoneID:       last.ZoneID,
		Crop:         last.Crop,
		Conditions:   avg,
		Aggregated:   true,
		Timestamp:    time.Now(),
	}
}
