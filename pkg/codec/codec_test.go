package codec_test

import (
	"encoding/json"
	"testing"

	"github.com/iotali/rrpc-harness/internal/models"
	"github.com/iotali/rrpc-harness/pkg/codec"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// TestEncode_MethodRequest checks the exact transport form of a JSON method
// request: compact JSON, then standard Base64, no line breaks.
func TestEncode_MethodRequest(t *testing.T) {
	c := codec.NewCodec(zerolog.Nop())

	request := models.MethodRequest{
		Method: "GetOvenStatus",
		Params: json.RawMessage(`{}`),
	}

	encoded := c.Encode(request)
	assert.Equal(t, "eyJtZXRob2QiOiJHZXRPdmVuU3RhdHVzIiwicGFyYW1zIjp7fX0=", encoded)
}

// TestEncode_RawBytes checks that byte slices are Base64-encoded directly,
// without any JSON wrapping.
func TestEncode_RawBytes(t *testing.T) {
	c := codec.NewCodec(zerolog.Nop())

	frame := []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01, 0x84, 0x0A}
	assert.Equal(t, "AQMAAAABhAo=", c.Encode(frame))
}

// TestEncode_String checks that plain strings encode their UTF-8 bytes.
func TestEncode_String(t *testing.T) {
	c := codec.NewCodec(zerolog.Nop())

	assert.Equal(t, "aGVsbG8=", c.Encode("hello"))
}

// TestRoundTrip_JSON checks that a structured payload survives
// encode-then-decode with its values intact.
func TestRoundTrip_JSON(t *testing.T) {
	c := codec.NewCodec(zerolog.Nop())

	payload := map[string]any{
		"method": "SetOvenTemperature",
		"params": map[string]any{"temperature": 200.0},
	}

	decoded := c.Decode(c.Encode(payload))

	assert.Equal(t, codec.KindJSON, decoded.Kind)
	assert.Equal(t, payload, decoded.Value)
	assert.JSONEq(t, `{"method":"SetOvenTemperature","params":{"temperature":200}}`, string(decoded.JSON))
}

// TestRoundTrip_Binary checks that non-JSON bytes come back unchanged as raw
// bytes instead of being force-parsed.
func TestRoundTrip_Binary(t *testing.T) {
	c := codec.NewCodec(zerolog.Nop())

	frame := []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01, 0x84, 0x0A}
	decoded := c.Decode(c.Encode(frame))

	assert.Equal(t, codec.KindRaw, decoded.Kind)
	assert.Equal(t, frame, decoded.Raw)
}

// TestDecode_InvalidBase64 checks that a malformed transport string yields an
// explicit no-value result instead of an error.
func TestDecode_InvalidBase64(t *testing.T) {
	c := codec.NewCodec(zerolog.Nop())

	decoded := c.Decode("!!!not-valid!!!")

	assert.Equal(t, codec.KindNone, decoded.Kind)
	assert.Nil(t, decoded.Raw)
	assert.Nil(t, decoded.Value)
}

// TestEncode_Scalar checks that scalar values encode as their JSON text.
func TestEncode_Scalar(t *testing.T) {
	c := codec.NewCodec(zerolog.Nop())

	decoded := c.Decode(c.Encode(42))
	assert.Equal(t, codec.KindJSON, decoded.Kind)
	assert.Equal(t, 42.0, decoded.Value)
}
