package main

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/iotali/rrpc-harness/internal/models"
)

// oven is the simulated smart oven the scripted scenarios talk to.
type oven struct {
	mu          sync.Mutex
	currentTemp float64
	targetTemp  float64
	heating     bool
	doorOpen    bool
}

func newOven() *oven {
	return &oven{currentTemp: 25.0} // room temperature
}

func (o *oven) status(requestID string, _ []byte) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	data, err := json.Marshal(map[string]any{
		"current_temperature": o.currentTemp,
		"target_temperature":  o.targetTemp,
		"heater_status":       o.heating,
		"door_status":         o.doorOpen,
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(models.MethodResponse{ID: requestID, Code: 200, Data: data, Message: "OK"})
}

func (o *oven) setTemperature(requestID string, payload []byte) ([]byte, error) {
	var request struct {
		Params struct {
			Temperature float64 `json:"temperature"`
		} `json:"params"`
	}
	if err := json.Unmarshal(payload, &request); err != nil {
		return nil, fmt.Errorf("invalid SetOvenTemperature request: %v", err)
	}
	if request.Params.Temperature < 0 || request.Params.Temperature > 300 {
		return json.Marshal(models.MethodResponse{
			ID:      requestID,
			Code:    400,
			Message: fmt.Sprintf("temperature %.1f out of range", request.Params.Temperature),
		})
	}

	o.mu.Lock()
	o.targetTemp = request.Params.Temperature
	o.heating = o.targetTemp > o.currentTemp
	o.mu.Unlock()

	return json.Marshal(models.MethodResponse{ID: requestID, Code: 200, Message: "OK"})
}

func (o *oven) emergencyStop(requestID string, _ []byte) ([]byte, error) {
	o.mu.Lock()
	o.targetTemp = 0
	o.heating = false
	o.mu.Unlock()

	return json.Marshal(models.MethodResponse{ID: requestID, Code: 200, Message: "stopped"})
}

func (o *oven) invokeService(requestID string, payload []byte) ([]byte, error) {
	var request struct {
		Params struct {
			Service string `json:"service"`
		} `json:"params"`
	}
	if err := json.Unmarshal(payload, &request); err != nil {
		return nil, fmt.Errorf("invalid InvokeService request: %v", err)
	}

	if request.Params.Service != "toggle_door" {
		return json.Marshal(models.MethodResponse{
			ID:      requestID,
			Code:    404,
			Message: "unknown service: " + request.Params.Service,
		})
	}

	o.mu.Lock()
	o.doorOpen = !o.doorOpen
	open := o.doorOpen
	o.mu.Unlock()

	data, err := json.Marshal(map[string]any{"door_open": open})
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.MethodResponse{ID: requestID, Code: 200, Data: data, Message: "OK"})
}

// modbusEcho answers raw frames the way a Modbus RTU slave would answer a
// single-register read: slave 01, function 03, one register.
func modbusEcho(_ string, payload []byte) ([]byte, error) {
	if len(payload) < 2 {
		return nil, fmt.Errorf("frame too short: %d bytes", len(payload))
	}
	// slave addr, function, byte count, register value, CRC
	return []byte{payload[0], payload[1], 0x02, 0x00, 0x2A, 0x38, 0x5D}, nil
}
