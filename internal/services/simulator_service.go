package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/iotali/rrpc-harness/internal/constants"
	"github.com/iotali/rrpc-harness/internal/models"
	"github.com/iotali/rrpc-harness/pkg/mqtt"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
)

// RRPCHandler produces the reply bytes for one RRPC request.
type RRPCHandler func(requestID string, payload []byte) ([]byte, error)

// SimulatorService plays the device end of RRPC: it answers the requests the
// cloud relays over MQTT, so the harness has a live device to call. JSON
// requests are dispatched by their method name; anything else goes to the
// binary fallback handler.
type SimulatorService struct {
	ProductKey string
	DeviceName string
	QOS        int
	MqttClient mqtt.MQTTClient
	Logger     zerolog.Logger

	handlers cmap.ConcurrentMap[string, RRPCHandler]
	fallback RRPCHandler
	running  bool
}

// NewSimulatorService initializes a new SimulatorService.
func NewSimulatorService(productKey, deviceName string, qos int,
	mqttClient mqtt.MQTTClient, logger zerolog.Logger) *SimulatorService {

	return &SimulatorService{
		ProductKey: productKey,
		DeviceName: deviceName,
		QOS:        qos,
		MqttClient: mqttClient,
		Logger:     logger,
		handlers:   cmap.New[RRPCHandler](),
	}
}

// RegisterHandler installs the handler for a JSON method name. Registering a
// method twice replaces the previous handler.
func (s *SimulatorService) RegisterHandler(method string, handler RRPCHandler) {
	s.handlers.Set(method, handler)
	s.Logger.Info().Str("method", method).Msg("Registered RRPC handler")
}

// SetBinaryHandler installs the handler for requests that are not JSON.
func (s *SimulatorService) SetBinaryHandler(handler RRPCHandler) {
	s.fallback = handler
}

// Start subscribes to the device's RRPC request topic.
func (s *SimulatorService) Start() error {
	if s.running {
		s.Logger.Warn().Msg("SimulatorService is already running")
		return errors.New("simulator service is already running")
	}

	topic := fmt.Sprintf(constants.RRPCRequestTopicFmt, s.ProductKey, s.DeviceName)
	token := s.MqttClient.Subscribe(topic, byte(s.QOS), s.onRequest)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to subscribe to RRPC request topic: %v", err)
	}

	s.running = true
	s.Logger.Info().Str("topic", topic).Msg("SimulatorService started successfully")
	return nil
}

// Stop unsubscribes from the RRPC request topic.
func (s *SimulatorService) Stop() error {
	if !s.running {
		s.Logger.Warn().Msg("SimulatorService is not running")
		return errors.New("simulator service is not running")
	}

	topic := fmt.Sprintf(constants.RRPCRequestTopicFmt, s.ProductKey, s.DeviceName)
	token := s.MqttClient.Unsubscribe(topic)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to unsubscribe from RRPC request topic: %v", err)
	}

	s.running = false
	s.Logger.Info().Msg("SimulatorService stopped successfully")
	return nil
}

// onRequest answers a single relayed RRPC request. The relay-assigned request
// id is the last topic segment and selects the response topic.
func (s *SimulatorService) onRequest(_ pahomqtt.Client, msg pahomqtt.Message) {
	requestID := requestIDFromTopic(msg.Topic())
	if requestID == "" {
		s.Logger.Warn().Str("topic", msg.Topic()).Msg("RRPC request without a request id")
		return
	}

	s.Logger.Info().
		Str("requestId", requestID).
		Hex("payload", msg.Payload()).
		Msg("Received RRPC request")

	reply, err := s.dispatch(requestID, msg.Payload())
	if err != nil {
		s.Logger.Error().Err(err).Str("requestId", requestID).Msg("RRPC handler failed")
		reply, err = json.Marshal(models.MethodResponse{ID: requestID, Code: 500, Message: err.Error()})
		if err != nil {
			return
		}
	}

	topic := fmt.Sprintf(constants.RRPCResponseTopicFmt, s.ProductKey, s.DeviceName, requestID)
	token := s.MqttClient.Publish(topic, byte(s.QOS), false, reply)
	token.Wait()

	if err := token.Error(); err != nil {
		s.Logger.Error().Err(err).Str("topic", topic).Msg("Failed to publish RRPC response")
		return
	}
	s.Logger.Debug().Str("topic", topic).Msg("Published RRPC response")
}

// dispatch routes the request to the handler for its method name, or to the
// binary fallback when the payload is not a JSON method request.
func (s *SimulatorService) dispatch(requestID string, payload []byte) ([]byte, error) {
	var request models.MethodRequest
	if err := json.Unmarshal(payload, &request); err != nil || request.Method == "" {
		if s.fallback != nil {
			return s.fallback(requestID, payload)
		}
		return nil, errors.New("no handler registered for binary requests")
	}

	handler, ok := s.handlers.Get(request.Method)
	if !ok {
		s.Logger.Warn().Str("method", request.Method).Msg("Unknown RRPC method")
		return json.Marshal(models.MethodResponse{
			ID:      requestID,
			Code:    404,
			Message: "unknown method: " + request.Method,
		})
	}

	return handler(requestID, payload)
}

func requestIDFromTopic(topic string) string {
	idx := strings.LastIndex(topic, "/")
	if idx < 0 || idx == len(topic)-1 {
		return ""
	}
	return topic[idx+1:]
}
