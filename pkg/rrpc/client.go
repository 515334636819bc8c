package rrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/iotali/rrpc-harness/internal/constants"
	"github.com/iotali/rrpc-harness/internal/models"
	"github.com/iotali/rrpc-harness/pkg/codec"
	"github.com/rs/zerolog"
)

// Endpoint identifies the relay server and the target device. It is fixed
// for the lifetime of a Client.
type Endpoint struct {
	BaseURL    string
	Token      string
	ProductKey string
	DeviceName string
}

// Invoker issues a single synchronous RRPC call.
type Invoker interface {
	Invoke(ctx context.Context, payload any, timeout time.Duration) (*models.RRPCResponse, error)
}

// Client posts RRPC envelopes to the cloud relay over HTTP.
type Client struct {
	endpoint   Endpoint
	httpClient *http.Client
	codec      *codec.Codec
	logger     zerolog.Logger
}

// NewClient creates a Client bound to the given endpoint.
func NewClient(endpoint Endpoint, payloadCodec *codec.Codec, logger zerolog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		// Deadlines are set per call, derived from the device timeout.
		httpClient: &http.Client{},
		codec:      payloadCodec,
		logger:     logger,
	}
}

// NetworkTimeout returns the HTTP-level deadline for a call with the given
// device timeout. The margin leaves the relay's own timeout logic room to
// resolve before the transport gives up.
func NetworkTimeout(deviceTimeout time.Duration) time.Duration {
	return deviceTimeout + constants.NetworkTimeoutMargin
}

// Invoke encodes the payload, posts the request envelope to the relay and
// parses its verdict. It makes exactly one attempt: transport failures and
// non-2xx statuses are returned as errors, never retried. A timeout of zero
// or less selects the default device timeout.
func (c *Client) Invoke(ctx context.Context, payload any, timeout time.Duration) (*models.RRPCResponse, error) {
	if timeout <= 0 {
		timeout = constants.DefaultDeviceTimeout
	}

	request := models.RRPCRequest{
		DeviceName:        c.endpoint.DeviceName,
		ProductKey:        c.endpoint.ProductKey,
		RequestBase64Byte: c.codec.Encode(payload),
		Timeout:           int(timeout / time.Millisecond),
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize RRPC request: %v", err)
	}

	c.logger.Debug().
		Str("device", request.DeviceName).
		Str("requestBase64", request.RequestBase64Byte).
		Int("timeoutMs", request.Timeout).
		Msg("Sending RRPC request")

	callCtx, cancel := context.WithTimeout(ctx, NetworkTimeout(timeout))
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.endpoint.BaseURL+constants.RRPCPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build RRPC request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TokenHeader, c.endpoint.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RRPC request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("RRPC request failed, received status code: %d", resp.StatusCode)
	}

	var response models.RRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to parse RRPC response: %v", err)
	}

	c.logger.Debug().
		Bool("success", response.Success).
		Str("rrpcCode", response.RRPCCode).
		Msg("Received RRPC response")

	return &response, nil
}
