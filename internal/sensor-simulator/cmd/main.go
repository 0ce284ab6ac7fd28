package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/growlab/growlab/internal/model/entities"
	sensorSimulator "github.com/growlab/growlab/internal/sensor-simulator"
	"github.com/growlab/growlab/internal/simulation"
	"github.com/growlab/growlab/pkg/rabbitmq"
)

func main() {
	zoneID := flag.String("zone-id", "zone1", "unique zone identifier")
	greenhouseID := flag.String("greenhouse-id", "greenhouse1", "greenhouse identifier")
	cropName := flag.String("crop", "lettuce", "crop grown in the zone")
	areaM2 := flag.Float64("area", 10.0, "growing area [m^2]")
	clientID := flag.String("client-id", "zonePublisher1", "MQTT client ID")
	interval := flag.Duration("interval", 10*time.Second, "publish interval")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	flag.Parse()

	crop := entities.Crop(*cropName)
	profile, err := simulation.LookupProfile(crop)
	if err != nil {
		log.Fatal(err)
	}

	cfg := &rabbitmq.RabbitMQConfig{
		Host:     "localhost",
		Port:     1883,
		User:     "guest",
		Password: "guest",
		ClientID: *clientID,
		Exchange: "telemetry",
		Kind:     "topic",
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := rabbitmq.NewRabbitMQConn(cfg, ctx)
	if err != nil {
		log.Fatal(err)
	}

	publisher := rabbitmq.NewPublisher(client, "telemetry/conditions", cfg.Exchange)
	consumer := rabbitmq.NewConsumer(client, "event/correction/"+*greenhouseID+"/"+*zoneID, nil)

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}
	generator := sensorSimulator.NewConditionsGenerator(profile, rng)

	zone := entities.Zone{
		GreenhouseID: *greenhouseID,
		ID:           *zoneID,
		Crop:         crop,
		AreaM2:       *areaM2,
	}
	sim := sensorSimulator.NewZoneSimulator(consumer, publisher, generator, &zone)
	sim.Start(ctx, *interval)
}
