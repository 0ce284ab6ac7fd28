package main

import (
	"os"
	"strconv"
)

type Config struct {
	Port      string
	TimeoutMs int

	// Upstream microservices
	SimulatorURL   string // es. http://simulator.fog:8080
	EventURL       string // es. http://event-service.cloud:8080
	PersistenceURL string // es. http://persistence.cloud:8080

	// Circuit breaker tuning
	CBEventFails      int
	CBEventOpenMs     int
	CBEventIntervalMs int
	CBRestFails       int
	CBRestOpenMs      int
	CBRestIntervalMs  int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func loadConfig() Config {
	return Config{
		Port:      getenv("PORT", "5009"),
		TimeoutMs: getenvInt("TIMEOUT_MS", 3000),

		SimulatorURL:   getenv("SIMULATOR_URL", "http://simulator.fog:8080"),
		EventURL:       getenv("EVENT_URL", "http://event-service.cloud:8080"),
		PersistenceURL: getenv("PERSISTENCE_URL", "http://persistence.cloud:8080"),

		CBEventFails:      getenvInt("CB_EVENT_FAILS", 3),
		CBEventOpenMs:     getenvInt("CB_EVENT_OPEN_MS", 10000),
		CBEventIntervalMs: getenvInt("CB_EVENT_INTERVAL_MS", 60000),
		CBRestFails:       getenvInt("CB_REST_FAILS", 3),
		CBRestOpenMs:      getenvInt("CB_REST_OPEN_MS", 10000),
		CBRestIntervalMs:  getenvInt("CB_REST_INTERVAL_MS", 60000),
	}
}
