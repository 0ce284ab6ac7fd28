package rabbitmq

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher defines the publishing side.
type IPublisher interface {
	PublishMessage(message interface{}) error
	PublishToQos(topic string, qos byte, retained bool, message string) error
	Close()
}

// Publisher publishes to a default topic on the shared MQTT client.
type Publisher struct {
	client   mqtt.Client
	topic    string
	exchange string
}

func NewPublisher(client mqtt.Client, topic string, exchange string) *Publisher {
	return &Publisher{
		client:   client,
		topic:    topic,
		exchange: exchange,
	}
}

// PublishMessage publishes to the default topic at QoS 0.
func (p *Publisher) PublishMessage(message interface{}) error {
	messageStr, ok := message.(string)
	if !ok {
		return fmt.Errorf("invalid message format, expected string")
	}

	token := p.client.Publish(p.topic, 0, false, messageStr)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to publish message: %w", token.Error())
	}

	log.Printf("Message published to topic '%s'", p.topic)
	return nil
}

// PublishToQos publishes to an explicit topic with an explicit QoS,
// for results that must survive a consumer restart.
func (p *Publisher) PublishToQos(topic string, qos byte, retained bool, message string) error {
	token := p.client.Publish(topic, qos, retained, message)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to publish message to %s: %w", topic, token.Error())
	}
	return nil
}

// Close gracefully closes the MQTT connection for the publisher.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Println("MQTT client disconnected")
	}
}
