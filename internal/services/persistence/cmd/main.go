package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	persistencepkg "github.com/growlab/growlab/internal/services/persistence"
	rabbitmq "github.com/growlab/growlab/pkg/rabbitmq"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MQTT (RabbitMQ/MQTT) ---
	mqCfg := &rabbitmq.RabbitMQConfig{
		Host:     env("RABBITMQ_HOST", env("MQTT_HOST", "localhost")),
		Port:     envInt("RABBITMQ_PORT", envInt("MQTT_PORT", 1883)),
		User:     env("RABBITMQ_USER", env("MQTT_USER", "mqtt_user")),
		Password: env("RABBITMQ_PASSWORD", env("MQTT_PASS", "mqtt_pwd")),
		ClientID: env("MQTT_CLIENT_ID", "persistence-service"),
		Kind:     env("RABBITMQ_EXCHANGE_KIND", "topic"),
	}
	topic := env("MQTT_TOPIC", env("AGGREGATED_SUB_TOPIC", "telemetry/aggregated/#"))

	mqClient, err := rabbitmq.NewRabbitMQConn(mqCfg, ctx)
	if err != nil {
		log.Fatalf("mqtt connect failed: %v", err)
	}
	defer rabbitmq.CloseRabbitMQConn(mqClient)
	consumer := rabbitmq.NewConsumer(mqClient, topic, nil)

	// --- InfluxDB ---
	influxCfg := persistencepkg.InfluxConfig{
		InfluxURL:       env("INFLUX_URL", "http://localhost:8086"),
		InfluxToken:     env("INFLUX_TOKEN", ""),
		InfluxOrg:       env("INFLUX_ORG", "growlab"),
		InfluxBucket:    env("INFLUX_BUCKET", "conditions"),
		MeasurementMode: env("MEASUREMENT_MODE", "single"),
		MeasurementName: env("MEASUREMENT", "zone_conditions"),
	}
	influxClient := influxdb2.NewClient(influxCfg.InfluxURL, influxCfg.InfluxToken)
	defer influxClient.Close()

	svc, err := persistencepkg.NewService(consumer, influxClient, influxCfg)
	if err != nil {
		log.Fatalf("persistence init failed: %v", err)
	}

	// --- HTTP mux ---
	// /healthz is registered inside NewHTTPMux(svc)
	mux := persistencepkg.NewHTTPMux(svc)
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ready": true})
	})

	httpPort := env("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + httpPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("persistence HTTP listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	// consume MQTT and write to Influx until the context closes
	go svc.Start(ctx)

	<-ctx.Done()
	stop()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	log.Println("persistence: shutdown complete")
}
