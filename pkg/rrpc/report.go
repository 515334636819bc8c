package rrpc

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iotali/rrpc-harness/internal/constants"
	"github.com/iotali/rrpc-harness/internal/models"
	"github.com/iotali/rrpc-harness/pkg/codec"
	"github.com/rs/zerolog"
)

// ReportPrinter renders relay responses for a human reading the test run.
type ReportPrinter struct {
	out    io.Writer
	codec  *codec.Codec
	logger zerolog.Logger
}

// NewReportPrinter creates a printer writing to out.
func NewReportPrinter(out io.Writer, payloadCodec *codec.Codec, logger zerolog.Logger) *ReportPrinter {
	return &ReportPrinter{
		out:    out,
		codec:  payloadCodec,
		logger: logger,
	}
}

// Print writes a summary of a single RRPC exchange: the overall verdict, the
// status classification, and on SUCCESS the decoded device payload. Statuses
// other than SUCCESS never attempt payload decoding.
func (p *ReportPrinter) Print(response *models.RRPCResponse) {
	if !response.Success {
		fmt.Fprintln(p.out, "API call failed")
		if response.Error != "" {
			fmt.Fprintf(p.out, "error: %s\n", response.Error)
		}
		return
	}

	switch response.RRPCCode {
	case constants.RRPCCodeSuccess:
		fmt.Fprintln(p.out, "RRPC call succeeded")
		if response.PayloadBase64 != "" {
			p.printPayload(response.PayloadBase64)
		}
	case constants.RRPCCodeTimeout:
		fmt.Fprintln(p.out, "RRPC call timed out, no response from device")
	case constants.RRPCCodeOffline:
		fmt.Fprintln(p.out, "device is offline")
	default:
		fmt.Fprintf(p.out, "unknown status code: %s\n", response.RRPCCode)
	}
}

func (p *ReportPrinter) printPayload(payloadBase64 string) {
	decoded := p.codec.Decode(payloadBase64)

	switch decoded.Kind {
	case codec.KindJSON:
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, decoded.JSON, "", "  "); err != nil {
			p.logger.Warn().Err(err).Msg("Failed to format device response")
			pretty.Write(decoded.JSON)
		}
		fmt.Fprintf(p.out, "device response:\n%s\n", pretty.String())
	case codec.KindRaw:
		fmt.Fprintf(p.out, "binary response: %s\n", hex.EncodeToString(decoded.Raw))
	default:
		fmt.Fprintln(p.out, "device response could not be decoded")
	}
}

// PrintLegend writes the meaning of each RRPC status code.
func (p *ReportPrinter) PrintLegend() {
	fmt.Fprintln(p.out, "\nRRPC status codes:")
	fmt.Fprintf(p.out, "- %s: call succeeded, device responded\n", constants.RRPCCodeSuccess)
	fmt.Fprintf(p.out, "- %s: call timed out, device did not respond\n", constants.RRPCCodeTimeout)
	fmt.Fprintf(p.out, "- %s: device is offline\n", constants.RRPCCodeOffline)
}
