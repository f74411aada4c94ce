package main

import (
	"flag"
	"log"
	"os"

	"TransitScan/internal/di"
	"TransitScan/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	log.Printf("env=%s backend=%s targets=%d", cfg.Environment, cfg.Backend.Type, len(cfg.Feed.Targets))

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}
	log.Printf("clickhouse: schema ready db=%s", cfg.ClickHouse.Database)
	if len(cfg.Kafka.Brokers) > 0 {
		log.Printf("kafka: brokers=%v topic=%s", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// blocks until SIGINT/SIGTERM
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
