package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iotali/rrpc-harness/internal/services"
	"github.com/iotali/rrpc-harness/internal/utils"
	"github.com/iotali/rrpc-harness/pkg/codec"
	"github.com/iotali/rrpc-harness/pkg/file"
	"github.com/iotali/rrpc-harness/pkg/rrpc"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	// Reports go to stdout; logs stay on stderr so the two don't interleave.
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	fileClient := file.NewFileService()

	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	payloadCodec := codec.NewCodec(log)

	client := rrpc.NewClient(rrpc.Endpoint{
		BaseURL:    config.Server.BaseURL,
		Token:      config.Server.Token,
		ProductKey: config.Device.ProductKey,
		DeviceName: config.Device.DeviceName,
	}, payloadCodec, log)

	printer := rrpc.NewReportPrinter(os.Stdout, payloadCodec, log)

	deviceTimeout := time.Duration(config.Harness.DeviceTimeout) * time.Millisecond
	callDelay := time.Duration(config.Harness.CallDelay) * time.Second

	runner := services.NewScenarioService(client, printer, os.Stdout, callDelay, log)
	for _, scenario := range services.DefaultScenarios() {
		if scenario.Timeout == 0 {
			scenario.Timeout = deviceTimeout
		}
		if err := runner.Register(scenario); err != nil {
			log.Fatal().Err(err).Str("scenario", scenario.Name).Msg("Failed to register scenario")
		}
	}

	fmt.Println("RRPC test suite")
	fmt.Printf("server:  %s\n", config.Server.BaseURL)
	fmt.Printf("product: %s\n", config.Device.ProductKey)
	fmt.Printf("device:  %s\n", config.Device.DeviceName)

	// Call failures are reported inline and never abort the run; the
	// process always exits normally.
	if err := runner.Run(context.Background()); err != nil {
		log.Error().Err(err).Msg("Scenario run interrupted")
	}
}
