package rrpc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iotali/rrpc-harness/internal/models"
	"github.com/iotali/rrpc-harness/pkg/codec"
	"github.com/iotali/rrpc-harness/pkg/rrpc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *rrpc.Client {
	return rrpc.NewClient(rrpc.Endpoint{
		BaseURL:    baseURL,
		Token:      "test-token",
		ProductKey: "QLTMkOfW",
		DeviceName: "S4Wj7RZ5TO",
	}, codec.NewCodec(zerolog.Nop()), zerolog.Nop())
}

// TestClient_Invoke_Success checks the full request envelope: path, headers,
// addressing fields, Base64 payload and timeout in milliseconds.
func TestClient_Invoke_Success(t *testing.T) {
	var received models.RRPCRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/device/rrpc", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-token", r.Header.Get("token"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(models.RRPCResponse{
			Success:       true,
			RRPCCode:      "SUCCESS",
			PayloadBase64: "AQMAAAABhAo=",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	response, err := client.Invoke(context.Background(), []byte{0x01}, 5*time.Second)
	require.NoError(t, err)

	assert.Equal(t, "S4Wj7RZ5TO", received.DeviceName)
	assert.Equal(t, "QLTMkOfW", received.ProductKey)
	assert.Equal(t, "AQ==", received.RequestBase64Byte)
	assert.Equal(t, 5000, received.Timeout)

	assert.True(t, response.Success)
	assert.Equal(t, "SUCCESS", response.RRPCCode)
	assert.Equal(t, "AQMAAAABhAo=", response.PayloadBase64)
}

// TestClient_Invoke_MisspelledPayloadField pins the server's literal response
// field name; the payload must be read from "playloadBase64Byte".
func TestClient_Invoke_MisspelledPayloadField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"rrpcCode":"SUCCESS","playloadBase64Byte":"aGVsbG8="}`))
	}))
	defer server.Close()

	response, err := newTestClient(server.URL).Invoke(context.Background(), "ping", 0)
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", response.PayloadBase64)
}

// TestClient_Invoke_UnknownStatusPassthrough checks that unrecognized rrpcCode
// values reach the caller unmodified.
func TestClient_Invoke_UnknownStatusPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.RRPCResponse{Success: true, RRPCCode: "THROTTLED"})
	}))
	defer server.Close()

	response, err := newTestClient(server.URL).Invoke(context.Background(), "ping", 0)
	require.NoError(t, err)
	assert.Equal(t, "THROTTLED", response.RRPCCode)
}

// TestClient_Invoke_ServerError checks that a non-2xx status is surfaced as
// an error rather than a response.
func TestClient_Invoke_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	response, err := newTestClient(server.URL).Invoke(context.Background(), "ping", 0)
	assert.Error(t, err)
	assert.Nil(t, response)
	assert.Contains(t, err.Error(), "502")
}

// TestClient_Invoke_NetworkError checks that an unreachable server is
// surfaced as an error.
func TestClient_Invoke_NetworkError(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	response, err := client.Invoke(context.Background(), "ping", 100*time.Millisecond)
	assert.Error(t, err)
	assert.Nil(t, response)
}

// TestNetworkTimeout checks the transport deadline contract: device timeout
// plus a five second margin, for any requested timeout.
func TestNetworkTimeout(t *testing.T) {
	assert.Equal(t, 10*time.Second, rrpc.NetworkTimeout(5000*time.Millisecond))
	assert.Equal(t, 6500*time.Millisecond, rrpc.NetworkTimeout(1500*time.Millisecond))
	assert.Equal(t, 35*time.Second, rrpc.NetworkTimeout(30*time.Second))
}
