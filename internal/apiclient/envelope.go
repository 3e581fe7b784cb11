package apiclient

import (
	"encoding/json"
	"time"
)

// Error codes attached to failed envelopes
const (
	ErrCodeAPIError     = "API_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeNetworkError = "NETWORK_ERROR"
)

// Envelope is the uniform wrapper imposed on every upstream response.
// Exactly one of Data/Error is set: Data when Success is true, Error when
// Success is false. The decision is made once at the network boundary and
// never re-sniffed downstream.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
	Meta    Meta            `json:"meta"`
}

// ErrorInfo describes a failed call
type ErrorInfo struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Meta carries envelope metadata
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

// Ok builds a successful envelope around a payload
func Ok(data json.RawMessage) *Envelope {
	return &Envelope{
		Success: true,
		Data:    data,
		Meta:    Meta{Timestamp: time.Now().UTC()},
	}
}

// Err builds a failed envelope
func Err(code, message string, details json.RawMessage) *Envelope {
	return &Envelope{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message, Details: details},
		Meta:    Meta{Timestamp: time.Now().UTC()},
	}
}

// Decode unmarshals the envelope payload into out. It is a no-op returning
// nil data on failed envelopes.
func (e *Envelope) Decode(out any) error {
	if !e.Success || len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, out)
}

// isEnvelope reports whether a raw body already matches the envelope shape:
// a boolean "success" field alongside an object "meta" field.
func isEnvelope(body []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return false
	}

	rawSuccess, ok := probe["success"]
	if !ok {
		return false
	}
	var success bool
	if err := json.Unmarshal(rawSuccess, &success); err != nil {
		return false
	}

	rawMeta, ok := probe["meta"]
	if !ok {
		return false
	}
	var meta map[string]json.RawMessage
	return json.Unmarshal(rawMeta, &meta) == nil
}
