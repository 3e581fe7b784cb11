package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"launchpad/client-portal/client-portal-backend/internal/config"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(config.APIConfig{BaseURL: baseURL, Timeout: 2 * time.Second}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.APIConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestWrapsNonEnvelopeSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"x":1}`))
	}))
	defer srv.Close()

	env := newTestClient(t, srv.URL).Request(context.Background(), "/anything", nil)

	assert.True(t, env.Success)
	assert.JSONEq(t, `{"x":1}`, string(env.Data))
	assert.Nil(t, env.Error)
	assert.False(t, env.Meta.Timestamp.IsZero())
}

func TestWrapsErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"bad"}`))
	}))
	defer srv.Close()

	env := newTestClient(t, srv.URL).Request(context.Background(), "/missing", nil)

	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeAPIError, env.Error.Code)
	assert.Equal(t, "bad", env.Error.Message)
	assert.JSONEq(t, `{"message":"bad"}`, string(env.Error.Details))
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream exploded`))
	}))
	defer srv.Close()

	env := newTestClient(t, srv.URL).Request(context.Background(), "/broken", nil)

	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), env.Error.Message)
}

func TestEnvelopeBodyPassesThroughUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": false,
			"data": null,
			"error": {"code": "UPSTREAM_CODE", "message": "upstream says no"},
			"meta": {"timestamp": "2025-11-03T10:00:00Z"}
		}`))
	}))
	defer srv.Close()

	// Status is 200 but the body already carries a failed envelope;
	// pass-through must win over wrapping.
	env := newTestClient(t, srv.URL).Request(context.Background(), "/enveloped", nil)

	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UPSTREAM_CODE", env.Error.Code)
	assert.Equal(t, "upstream says no", env.Error.Message)
}

func TestNetworkFailureFallsBackToMock(t *testing.T) {
	// Point at a server that is already closed so the dial fails.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url)
	env := client.Request(context.Background(), "/dashboard/metrics", nil)

	assert.True(t, env.Success)
	var metrics struct {
		TotalSessions int `json:"totalSessions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &metrics))
	assert.Equal(t, 12, metrics.TotalSessions)
}

func TestNetworkFailureUnmockedEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	env := newTestClient(t, url).Request(context.Background(), "/not/mocked", nil)

	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeNotFound, env.Error.Code)
	assert.Equal(t, "Endpoint not found", env.Error.Message)
}

func TestRegisterMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url)
	client.RegisterMock("/custom/endpoint", json.RawMessage(`{"hello":"world"}`))

	env := client.Request(context.Background(), "/custom/endpoint", nil)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"hello":"world"}`, string(env.Data))
}

func TestIsEnvelope(t *testing.T) {
	assert.True(t, isEnvelope([]byte(`{"success":true,"meta":{}}`)))
	assert.True(t, isEnvelope([]byte(`{"success":false,"data":null,"error":null,"meta":{"timestamp":"2025-11-03T10:00:00Z"}}`)))

	// success present but not boolean
	assert.False(t, isEnvelope([]byte(`{"success":"yes","meta":{}}`)))
	// meta present but not an object
	assert.False(t, isEnvelope([]byte(`{"success":true,"meta":3}`)))
	assert.False(t, isEnvelope([]byte(`{"x":1}`)))
	assert.False(t, isEnvelope([]byte(`[]`)))
}

func TestDecode(t *testing.T) {
	env := Ok(json.RawMessage(`{"a":2}`))
	var out struct {
		A int `json:"a"`
	}
	require.NoError(t, env.Decode(&out))
	assert.Equal(t, 2, out.A)

	failed := Err(ErrCodeAPIError, "nope", nil)
	out.A = 0
	require.NoError(t, failed.Decode(&out))
	assert.Zero(t, out.A)
}
