package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/iotali/rrpc-harness/internal/services"
	"github.com/iotali/rrpc-harness/internal/utils"
	"github.com/iotali/rrpc-harness/pkg/file"
	"github.com/iotali/rrpc-harness/pkg/mqtt"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	fileClient := file.NewFileService()

	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Generate a unique MQTT Client ID by appending a UUID
	clientID := config.MQTT.ClientID + "-" + uuid.New().String()
	log.Info().Str("clientId", clientID).Msg("Using MQTT Client ID")

	mqttClient := mqtt.NewMqttService(fileClient)
	if err := mqttClient.Initialize(config.MQTT.Broker, clientID, config.MQTT.CACertificate); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MQTT connection")
	}

	simulator := services.NewSimulatorService(
		config.Simulator.ProductKey,
		config.Simulator.DeviceName,
		config.MQTT.QOS,
		mqttClient,
		log,
	)

	device := newOven()
	simulator.RegisterHandler("GetOvenStatus", device.status)
	simulator.RegisterHandler("SetOvenTemperature", device.setTemperature)
	simulator.RegisterHandler("EmergencyStop", device.emergencyStop)
	simulator.RegisterHandler("InvokeService", device.invokeService)
	simulator.SetBinaryHandler(modbusEcho)

	if err := simulator.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start simulator")
	}
	log.Info().Msg("Device simulator started, waiting for RRPC requests")

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down gracefully...")
	if err := simulator.Stop(); err != nil {
		log.Error().Err(err).Msg("Failed to stop simulator")
	}
	mqttClient.Disconnect(250)
}
