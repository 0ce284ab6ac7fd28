package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/growlab/growlab/internal/services/aggregator"
	"github.com/growlab/growlab/pkg/rabbitmq"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	cfg := &rabbitmq.RabbitMQConfig{
		Host:     env("RABBITMQ_HOST", "localhost"),
		Port:     1883,
		User:     env("RABBITMQ_USER", "guest"),
		Password: env("RABBITMQ_PASSWORD", "guest"),
		ClientID: env("MQTT_CLIENT_ID", "dataAggregator1"),
		Exchange: "telemetry",
		Kind:     "topic",
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := rabbitmq.NewRabbitMQConn(cfg, ctx)
	if err != nil {
		log.Fatalf("Failed to connect to MQTT broker: %v", err)
	}

	publisher := rabbitmq.NewPublisher(client, "telemetry/aggregated", cfg.Exchange)

	// handler injected later by the service
	consumer := rabbitmq.NewConsumer(client, "telemetry/conditions", nil)

	svc := aggregator.NewDataAggregatorService(consumer, publisher, 1*time.Minute,
		env("AGGREGATED_TOPIC_TMPL", "telemetry/aggregated/{greenhouse}/{zone}"))

	log.Println("Data Aggregator service is running...")
	svc.Start(ctx)
}
