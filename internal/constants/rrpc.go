package constants

import "time"

// Relay API
const (
	// RRPCPath is the relay endpoint for synchronous device calls.
	RRPCPath = "/api/v1/device/rrpc"
	// TokenHeader carries the API token on every relay request.
	TokenHeader = "token"
)

// RRPC status codes returned by the relay in the rrpcCode field.
const (
	// RRPCCodeSuccess indicates the device answered within the timeout
	RRPCCodeSuccess = "SUCCESS"
	// RRPCCodeTimeout indicates the device did not answer in time
	RRPCCodeTimeout = "TIMEOUT"
	// RRPCCodeOffline indicates the device is not connected to the broker
	RRPCCodeOffline = "OFFLINE"
)

const (
	// DefaultDeviceTimeout is how long the relay waits for the device.
	DefaultDeviceTimeout = 5000 * time.Millisecond
	// NetworkTimeoutMargin is added on top of the device timeout for the
	// HTTP deadline, so the relay's own timeout logic resolves first.
	NetworkTimeoutMargin = 5 * time.Second
	// DefaultScenarioDelay is the pause between scripted scenarios.
	DefaultScenarioDelay = 2 * time.Second
)

// MQTT topics used by the device side of RRPC. The trailing wildcard on the
// request topic matches the relay-assigned request id.
const (
	RRPCRequestTopicFmt  = "/sys/%s/%s/rrpc/request/+"
	RRPCResponseTopicFmt = "/sys/%s/%s/rrpc/response/%s"
)
