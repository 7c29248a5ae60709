package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrorKind is the machine-readable class of a provider or transport failure.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindRateLimited  ErrorKind = "rateLimited"
	KindNetwork      ErrorKind = "network"
	KindServerError  ErrorKind = "serverError"
	KindUnknown      ErrorKind = "unknown"
)

// maxErrorBody bounds how much of a raw error body is carried in an APIError.
const maxErrorBody = 200

// statusMessages is the fallback when an error body has no usable message.
var statusMessages = map[int]string{
	401: "invalid API key",
	429: "rate limited",
	404: "model not found",
	500: "server unavailable",
	503: "server unavailable",
}

// APIError is a failed provider call. Kind is assigned where the HTTP status
// or transport failure is first seen.
type APIError struct {
	Kind     ErrorKind
	Provider ProviderKind
	Status   int // 0 for transport failures
	Message  string
	Body     string
	Cause    error
}

func (e *APIError) Error() string {
	var b strings.Builder
	if e.Status != 0 {
		fmt.Fprintf(&b, "API error: %d %s", e.Status, e.Message)
	} else {
		fmt.Fprintf(&b, "API error: %s", e.Message)
	}
	if e.Provider != "" {
		fmt.Fprintf(&b, " (%s)", e.Provider)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %s", e.Body)
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// KindForStatus maps an HTTP status code to an ErrorKind.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindUnauthorized
	case status == 429:
		return KindRateLimited
	case status == 408:
		return KindNetwork
	case status >= 500:
		return KindServerError
	default:
		return KindUnknown
	}
}

// newStatusError builds an APIError for a non-2xx response. message is the
// provider's own error message when the body could be parsed.
func newStatusError(provider ProviderKind, status int, message string, body []byte) *APIError {
	if message == "" {
		message = statusMessages[status]
	}
	if message == "" {
		message = fmt.Sprintf("unexpected status %d", status)
	}
	return &APIError{
		Kind:     KindForStatus(status),
		Provider: provider,
		Status:   status,
		Message:  message,
		Body:     truncate(strings.TrimSpace(string(body)), maxErrorBody),
	}
}

// newTransportError wraps a failure that happened before any HTTP status arrived.
func newTransportError(provider ProviderKind, err error) *APIError {
	return &APIError{
		Kind:     transportKind(err),
		Provider: provider,
		Message:  err.Error(),
		Cause:    err,
	}
}

func transportKind(err error) ErrorKind {
	if errors.Is(err, context.Canceled) {
		return KindUnknown
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindNetwork
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindNetwork
	}
	return KindUnknown
}

// substringKinds classifies errors that arrive untyped, checked in order
// against the lowercased message.
var substringKinds = []struct {
	marker string
	kind   ErrorKind
}{
	{"401", KindUnauthorized},
	{"unauthorized", KindUnauthorized},
	{"429", KindRateLimited},
	{"rate limit", KindRateLimited},
	{"enotfound", KindNetwork},
	{"etimedout", KindNetwork},
	{"econnreset", KindNetwork},
	{"no such host", KindNetwork},
	{"connection reset", KindNetwork},
	{"timeout", KindNetwork},
	{"timed out", KindNetwork},
}

// Classify returns the kind of err. Typed errors are matched structurally;
// anything else falls back to substring matching on the message.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Kind != KindUnknown {
		return apiErr.Kind
	}
	msg := strings.ToLower(err.Error())
	for _, s := range substringKinds {
		if strings.Contains(msg, s.marker) {
			return s.kind
		}
	}
	return KindUnknown
}

// transientMarkers are the message markers retried when an error is untyped.
var transientMarkers = []string{
	"429",
	"ETIMEDOUT",
	"ECONNRESET",
	"ENOTFOUND",
	"i/o timeout",
	"connection reset",
	"no such host",
}

// IsTransient reports whether err is worth retrying: rate limiting,
// connect timeouts, connection resets and DNS failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Kind != KindUnknown {
		return apiErr.Kind == KindRateLimited || apiErr.Kind == KindNetwork
	}
	msg := err.Error()
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
