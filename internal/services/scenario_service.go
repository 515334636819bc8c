package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/iotali/rrpc-harness/internal/constants"
	"github.com/iotali/rrpc-harness/internal/models"
	"github.com/iotali/rrpc-harness/pkg/rrpc"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Scenario is a single scripted RRPC exchange.
type Scenario struct {
	Name        string
	Description string
	Payload     any
	Timeout     time.Duration
}

// ScenarioService runs scripted scenarios against the RRPC relay, one at a
// time, in registration order, with a fixed delay between calls.
type ScenarioService struct {
	Invoker rrpc.Invoker
	Printer *rrpc.ReportPrinter
	Out     io.Writer
	Logger  zerolog.Logger

	scenarios *orderedmap.OrderedMap[string, Scenario]
	limiter   *rate.Limiter
}

// NewScenarioService initializes a new ScenarioService. A delay of zero or
// less selects the default inter-call delay.
func NewScenarioService(invoker rrpc.Invoker, printer *rrpc.ReportPrinter, out io.Writer,
	delay time.Duration, logger zerolog.Logger) *ScenarioService {

	if delay <= 0 {
		delay = constants.DefaultScenarioDelay
	}

	return &ScenarioService{
		Invoker:   invoker,
		Printer:   printer,
		Out:       out,
		Logger:    logger,
		scenarios: orderedmap.NewOrderedMap[string, Scenario](),
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Register adds a scenario to the run. Registration order is execution order.
func (s *ScenarioService) Register(scenario Scenario) error {
	if _, exists := s.scenarios.Get(scenario.Name); exists {
		s.Logger.Warn().Str("scenario", scenario.Name).Msg("Scenario is already registered")
		return errors.New("scenario is already registered")
	}

	s.scenarios.Set(scenario.Name, scenario)
	s.Logger.Info().Str("scenario", scenario.Name).Msg("Registered scenario")
	return nil
}

// Run executes every registered scenario in order and prints a report for
// each, followed by the status-code legend. A failed call is reported as a
// failure result and does not stop the run; Run only returns an error when
// the context is cancelled between calls.
func (s *ScenarioService) Run(ctx context.Context) error {
	index := 0
	for el := s.scenarios.Front(); el != nil; el = el.Next() {
		scenario := el.Value
		index++

		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		fmt.Fprintf(s.Out, "\n%s\n", strings.Repeat("=", 50))
		fmt.Fprintf(s.Out, "Test %d: %s - %s\n", index, scenario.Name, scenario.Description)
		fmt.Fprintln(s.Out, strings.Repeat("=", 50))

		response, err := s.Invoker.Invoke(ctx, scenario.Payload, scenario.Timeout)
		if err != nil {
			s.Logger.Error().Err(err).Str("scenario", scenario.Name).Msg("RRPC call failed")
			response = &models.RRPCResponse{Success: false, Error: err.Error()}
		}

		s.Printer.Print(response)
	}

	s.Printer.PrintLegend()
	return nil
}

// DefaultScenarios returns the scripted exchanges covering the oven device
// methods plus a raw Modbus RTU frame, in the order they should run.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "GetOvenStatus",
			Description: "read the oven state",
			Payload:     models.MethodRequest{Method: "GetOvenStatus", Params: json.RawMessage(`{}`)},
		},
		{
			Name:        "SetOvenTemperature",
			Description: "set the target temperature to 200",
			Payload:     models.MethodRequest{Method: "SetOvenTemperature", Params: json.RawMessage(`{"temperature":200}`)},
		},
		{
			Name:        "EmergencyStop",
			Description: "stop the oven immediately",
			Payload:     models.MethodRequest{Method: "EmergencyStop", Params: json.RawMessage(`{}`)},
		},
		{
			Name:        "ModbusFrame",
			Description: "send a raw Modbus RTU read request",
			Payload:     []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01, 0x84, 0x0A},
		},
		{
			Name:        "InvokeService",
			Description: "invoke the toggle_door service",
			Payload:     models.MethodRequest{Method: "InvokeService", Params: json.RawMessage(`{"service":"toggle_door","params":{}}`)},
		},
	}
}
