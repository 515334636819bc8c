package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// Kind tags the outcome of decoding a device payload.
type Kind int

const (
	// KindNone means the transport string itself could not be decoded.
	KindNone Kind = iota
	// KindJSON means the payload bytes parsed as JSON.
	KindJSON
	// KindRaw means the payload is opaque bytes.
	KindRaw
)

// Decoded is the result of decoding a Base64 device payload. Exactly one of
// the value fields is meaningful, selected by Kind.
type Decoded struct {
	Kind  Kind
	JSON  json.RawMessage // original JSON text, key order as received
	Value any             // parsed form of JSON
	Raw   []byte          // opaque payload bytes
}

// Codec converts payloads to and from the relay's Base64 transport form.
type Codec struct {
	logger zerolog.Logger
}

// NewCodec returns a Codec that logs decode failures to the given logger.
func NewCodec(logger zerolog.Logger) *Codec {
	return &Codec{logger: logger}
}

// Encode turns an arbitrary payload into a transport-safe Base64 string.
// Byte slices are encoded as-is, strings as their UTF-8 bytes, and anything
// else as compact JSON. Encoding never fails: values JSON cannot represent
// fall back to their plain text form.
func (c *Codec) Encode(v any) string {
	switch data := v.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(data)
	case string:
		return base64.StdEncoding.EncodeToString([]byte(data))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			b = []byte(fmt.Sprint(v))
		}
		return base64.StdEncoding.EncodeToString(b)
	}
}

// Decode reverses Encode on a payload received from the device. JSON payloads
// come back parsed, with the original text preserved; anything else is
// returned as raw bytes. A malformed Base64 string yields KindNone. Decode
// never returns an error.
func (c *Codec) Decode(s string) Decoded {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to decode Base64 payload")
		return Decoded{Kind: KindNone}
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		c.logger.Debug().Err(err).Msg("Payload is not JSON, treating as raw bytes")
		return Decoded{Kind: KindRaw, Raw: raw}
	}

	return Decoded{Kind: KindJSON, JSON: raw, Value: value}
}
