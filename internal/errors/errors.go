// Package errors provides custom error types for the askchat client.
package errors

import (
	"errors"
	"fmt"
)

// User-facing texts rendered as bot messages when a request fails
const (
	DeliveryFailureText = "Error: Could not connect to the server."
	MissingAnswerText   = "Error: The server response did not include an answer."
)

// Sentinel errors for common cases
var (
	ErrDelivery      = errors.New("delivery failed")
	ErrMissingAnswer = errors.New("response has no answer")
	ErrEmptyQuestion = errors.New("question cannot be empty")
)

// DeliveryError represents any failure to send a request or read a
// JSON response: transport errors, unreadable bodies and non-JSON bodies.
type DeliveryError struct {
	Op         string
	Endpoint   string
	StatusCode int
	Cause      error
}

func (e *DeliveryError) Error() string {
	msg := "delivery failed"
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Op)
	}
	if e.Endpoint != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Endpoint)
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [%d]", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// Is allows comparison with sentinel errors
func (e *DeliveryError) Is(target error) bool {
	if target == ErrDelivery {
		return true
	}
	_, ok := target.(*DeliveryError)
	return ok
}

// NewDeliveryError creates a new DeliveryError
func NewDeliveryError(op, endpoint string, cause error) *DeliveryError {
	return &DeliveryError{Op: op, Endpoint: endpoint, Cause: cause}
}

// NewDeliveryErrorWithStatus creates a DeliveryError that also records the HTTP status
func NewDeliveryErrorWithStatus(op, endpoint string, status int, cause error) *DeliveryError {
	return &DeliveryError{Op: op, Endpoint: endpoint, StatusCode: status, Cause: cause}
}

// MalformedResponseError represents a JSON response without a usable answer
type MalformedResponseError struct {
	StatusCode    int
	Endpoint      string
	ServerMessage string // the backend's "error" field, if any
	Body          string
}

func (e *MalformedResponseError) Error() string {
	msg := "malformed response"
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [%d]", msg, e.StatusCode)
	}
	if e.Endpoint != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Endpoint)
	}
	if e.ServerMessage != "" {
		return fmt.Sprintf("%s: %s", msg, e.ServerMessage)
	}
	return fmt.Sprintf("%s: %v", msg, ErrMissingAnswer)
}

// Is allows comparison with sentinel errors
func (e *MalformedResponseError) Is(target error) bool {
	if target == ErrMissingAnswer {
		return true
	}
	_, ok := target.(*MalformedResponseError)
	return ok
}

// NewMalformedResponseError creates a new MalformedResponseError
func NewMalformedResponseError(status int, endpoint, serverMessage, body string) *MalformedResponseError {
	return &MalformedResponseError{
		StatusCode:    status,
		Endpoint:      endpoint,
		ServerMessage: serverMessage,
		Body:          body,
	}
}

// IsDeliveryError reports whether err is a delivery failure
func IsDeliveryError(err error) bool {
	return errors.Is(err, ErrDelivery)
}

// IsMalformedResponse reports whether err is a response without an answer
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMissingAnswer)
}

// GetHTTPStatus returns the HTTP status recorded in err, or 0
func GetHTTPStatus(err error) int {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.StatusCode
	}
	var me *MalformedResponseError
	if errors.As(err, &me) {
		return me.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint recorded in err, or ""
func GetEndpoint(err error) string {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Endpoint
	}
	var me *MalformedResponseError
	if errors.As(err, &me) {
		return me.Endpoint
	}
	return ""
}

// GetServerMessage returns the backend's own error message, or ""
func GetServerMessage(err error) string {
	var me *MalformedResponseError
	if errors.As(err, &me) {
		return me.ServerMessage
	}
	return ""
}

// UserMessage maps a failed request to the text shown in the chat log
func UserMessage(err error) string {
	if IsMalformedResponse(err) {
		return MissingAnswerText
	}
	return DeliveryFailureText
}
