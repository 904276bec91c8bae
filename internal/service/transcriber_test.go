package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transcriberTestServer(t *testing.T, process http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var authCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/token", func(w http.ResponseWriter, r *http.Request) {
		authCalls.Add(1)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-key", body["apiKey"])

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "fresh"})
	})
	mux.HandleFunc("POST /v1/process", process)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &authCalls
}

func TestProcessSuccess(t *testing.T) {
	audio := []byte("fake audio bytes")

	server, authCalls := transcriberTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))

		var req processRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, base64.StdEncoding.EncodeToString(audio), req.Audio)
		assert.Equal(t, "de", req.Language)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"transcript": "heute war gut",
			"analysis": map[string]any{
				"summary": "A good day.",
				"mood":    "content",
			},
			"sessionId":     "s1",
			"sessionsToday": 2,
			"maxSessions":   10,
		})
	})

	svc := NewTranscriberService(server.URL, "test-key", false)
	result, err := svc.Process(context.Background(), audio, "de")
	require.NoError(t, err)

	assert.Equal(t, "heute war gut", result.Transcript)
	assert.Equal(t, "content", result.Analysis.Mood)
	assert.Equal(t, 2, result.SessionsToday)
	assert.Equal(t, int32(1), authCalls.Load())
}

func TestProcessTrialExpired(t *testing.T) {
	server, _ := transcriberTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"trial_expired","message":"trial is over"}}`))
	})

	svc := NewTranscriberService(server.URL, "test-key", false)
	_, err := svc.Process(context.Background(), []byte("x"), "en")

	require.ErrorIs(t, err, ErrTrialExpired)
}

func TestProcessDailyLimitReached(t *testing.T) {
	server, _ := transcriberTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":"daily_limit_reached","sessionsToday":9,"maxSessions":10}}`))
	})

	svc := NewTranscriberService(server.URL, "test-key", false)
	_, err := svc.Process(context.Background(), []byte("x"), "en")

	require.Error(t, err)
	assert.Equal(t, "LIMIT_REACHED:9:10", err.Error())
}

func TestProcessReauthenticatesOnceOn401(t *testing.T) {
	var processCalls atomic.Int32

	server, authCalls := transcriberTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		processCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"transcript": "ok"})
	})

	svc := NewTranscriberService(server.URL, "test-key", false)
	svc.token = "stale"

	result, err := svc.Process(context.Background(), []byte("x"), "en")
	require.NoError(t, err)

	assert.Equal(t, "ok", result.Transcript)
	assert.Equal(t, int32(2), processCalls.Load(), "one retry after re-auth")
	assert.Equal(t, int32(1), authCalls.Load())
}

func TestProcessGivesUpAfterSecond401(t *testing.T) {
	var processCalls atomic.Int32

	server, authCalls := transcriberTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		processCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"revoked key"}}`))
	})

	svc := NewTranscriberService(server.URL, "test-key", false)
	svc.token = "stale"

	_, err := svc.Process(context.Background(), []byte("x"), "en")
	require.Error(t, err)

	assert.Equal(t, int32(2), processCalls.Load(), "exactly one retry, never more")
	assert.Equal(t, int32(1), authCalls.Load())
}

func TestProcessDevModeWithoutEndpoint(t *testing.T) {
	svc := NewTranscriberService("", "", true)

	result, err := svc.Process(context.Background(), []byte("x"), "en")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Transcript)
	assert.NotEmpty(t, result.Analysis.Summary)
}

func TestProcessMissingEndpointInProduction(t *testing.T) {
	svc := NewTranscriberService("", "", false)

	_, err := svc.Process(context.Background(), []byte("x"), "en")
	require.Error(t, err)
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "de", normalizeLanguage("de"))
	assert.Equal(t, "en-US", normalizeLanguage("en-us"))
	assert.Equal(t, "en", normalizeLanguage("not a language tag"))
	assert.Equal(t, "en", normalizeLanguage(""))
}
