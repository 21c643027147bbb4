package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws/awserr"

	"github.com/petgateway/petgateway/pkg/model"
)

// Error codes for failures that did not come from the gateway itself.
const (
	// ErrCodeRequest marks a transport failure (dial, TLS, timeout, cancel).
	ErrCodeRequest = "RequestError"
	// ErrCodeSerialization marks a body that could not be encoded or decoded.
	ErrCodeSerialization = "SerializationError"
	// ErrCodeUnknown is used when a non-2xx body carries no error code.
	ErrCodeUnknown = "UnknownError"
)

// Response headers that carry the request id.
const (
	headerRequestID        = "X-Request-ID"
	headerGatewayRequestID = "X-Amzn-RequestId"
)

// newRequestFailure builds the error for a non-2xx response. The gateway's
// code and message are passed through unchanged.
func newRequestFailure(resp *http.Response, body []byte) error {
	var payload model.Error
	if err := json.Unmarshal(body, &payload); err != nil || (payload.Code == "" && payload.Message == "") {
		payload = model.Error{
			Code:    ErrCodeUnknown,
			Message: strings.TrimSpace(string(body)),
		}
		if payload.Message == "" {
			payload.Message = http.StatusText(resp.StatusCode)
		}
	}
	if payload.Code == "" {
		payload.Code = ErrCodeUnknown
	}

	return awserr.NewRequestFailure(
		awserr.New(payload.Code, payload.Message, nil),
		resp.StatusCode,
		requestID(resp.Header),
	)
}

func requestID(h http.Header) string {
	if id := h.Get(headerRequestID); id != "" {
		return id
	}
	return h.Get(headerGatewayRequestID)
}

// IsNotFound reports whether err is a 404 answer from the gateway.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status of a gateway failure, or 0 when err did
// not come from a gateway response.
func StatusCode(err error) int {
	var rf awserr.RequestFailure
	if errors.As(err, &rf) {
		return rf.StatusCode()
	}
	return 0
}

// ErrorCode returns the error code carried by err, or "" when err is not an
// awserr.Error.
func ErrorCode(err error) string {
	var ae awserr.Error
	if errors.As(err, &ae) {
		return ae.Code()
	}
	return ""
}
