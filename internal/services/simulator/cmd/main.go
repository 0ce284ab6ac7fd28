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
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/growlab/growlab/internal/services/simulator"
	"github.com/growlab/growlab/pkg/rabbitmq"
)

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	cfg := struct {
		Rabbit rabbitmq.RabbitMQConfig

		ZonesPath       string
		AggregatedTopic string
		ResultTopicTmpl string
		HTTPPort        int
	}{
		Rabbit: rabbitmq.RabbitMQConfig{
			Host:     envStr("RABBITMQ_HOST", "localhost"),
			Port:     envInt("RABBITMQ_PORT", 1883),
			User:     envStr("RABBITMQ_USER", "guest"),
			Password: envStr("RABBITMQ_PASSWORD", "guest"),
			ClientID: envStr("HOSTNAME", "simulator-service"),
			Kind:     envStr("RABBITMQ_EXCHANGE_KIND", "topic"),
		},
		ZonesPath:       envStr("ZONES_PATH", "/etc/growlab/zones.json"),
		AggregatedTopic: envStr("AGGREGATED_SUB_TOPIC", "telemetry/aggregated/#"),
		ResultTopicTmpl: envStr("RESULT_TOPIC_TMPL", "event/simulationResult/{greenhouse}/{zone}"),
		HTTPPort:        envInt("HTTP_PORT", 8080),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zones, err := simulator.LoadZones(cfg.ZonesPath)
	if err != nil {
		log.Fatalf("load zones: %v", err)
	}

	mqttClient, err := rabbitmq.NewRabbitMQConn(&cfg.Rabbit, ctx)
	if err != nil {
		log.Fatalf("mqtt connection error: %v", err)
	}
	defer rabbitmq.CloseRabbitMQConn(mqttClient)

	consumer := rabbitmq.NewConsumer(mqttClient, cfg.AggregatedTopic, nil)
	publisher := rabbitmq.NewPublisher(mqttClient, "", cfg.Rabbit.Exchange)

	metrics := simulator.NewMetrics(prometheus.DefaultRegisterer)
	svc, err := simulator.NewService(consumer, publisher, zones, cfg.ResultTopicTmpl, metrics)
	if err != nil {
		log.Fatalf("simulator service: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/zones/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(svc.ZoneStatuses())
	})
	mux.Handle("/metrics", promhttp.Handler())

	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("simulator-svc: HTTP listening on :%d", cfg.HTTPPort)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	go svc.Start(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Printf("simulator-svc: shutting down...")

	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = hs.Shutdown(shCtx)
}
