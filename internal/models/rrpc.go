package models

import "encoding/json"

// RRPCRequest is the envelope posted to the cloud relay for one call.
type RRPCRequest struct {
	DeviceName        string `json:"deviceName"`        // Name of the target device.
	ProductKey        string `json:"productKey"`        // Product the device belongs to.
	RequestBase64Byte string `json:"requestBase64Byte"` // Base64 of the raw request bytes.
	Timeout           int    `json:"timeout"`           // Device timeout in milliseconds.
}

// RRPCResponse is the relay's verdict on a single call. Unrecognized
// RRPCCode values are passed through to the caller untouched.
type RRPCResponse struct {
	Success bool `json:"success"` // Whether the relay accepted and completed the call.
	// RRPCCode classifies the outcome: SUCCESS, TIMEOUT or OFFLINE.
	RRPCCode string `json:"rrpcCode,omitempty"`
	// PayloadBase64 holds the device's reply, present only on SUCCESS.
	// The wire name really is "playload"; the server spells it that way
	// and the field must match it exactly.
	PayloadBase64 string `json:"playloadBase64Byte,omitempty"`
	Error         string `json:"error,omitempty"` // Description of a relay-side failure.
}

// MethodRequest is the JSON request shape the oven device understands.
type MethodRequest struct {
	Method string          `json:"method"`           // Name of the device method to invoke.
	Params json.RawMessage `json:"params,omitempty"` // Method arguments, method specific.
}

// MethodResponse is the reply a device publishes for a JSON request.
type MethodResponse struct {
	ID      string          `json:"id"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}
