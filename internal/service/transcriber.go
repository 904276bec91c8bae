package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/murmurlabs/murmur/internal/model"
	"golang.org/x/text/language"
)

var (
	// ErrTrialExpired maps the transcriber's trial_expired error code.
	ErrTrialExpired = errors.New("trial_expired")
)

const (
	errCodeTrialExpired      = "trial_expired"
	errCodeDailyLimitReached = "daily_limit_reached"
)

// TranscriberService calls the remote transcription/analysis pipeline.
// It authenticates with a short-lived token obtained from the API key;
// a 401 triggers exactly one re-authentication and retry, the only
// automatic retry in this subsystem. Without a configured endpoint it
// runs in dev mode and returns a canned result, like the email service's
// log mode.
type TranscriberService struct {
	baseURL string
	apiKey  string
	isDev   bool
	client  *http.Client

	mu    sync.Mutex
	token string
}

func NewTranscriberService(baseURL, apiKey string, isDev bool) *TranscriberService {
	return &TranscriberService{
		baseURL: baseURL,
		apiKey:  apiKey,
		isDev:   isDev,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type processRequest struct {
	Audio    string `json:"audio"` // base64
	Language string `json:"language"`
}

type processError struct {
	Error struct {
		Code          string `json:"code"`
		Message       string `json:"message"`
		SessionsToday int    `json:"sessionsToday"`
		MaxSessions   int    `json:"maxSessions"`
	} `json:"error"`
}

// Process sends the recording for transcription and analysis. Limit and
// trial errors come back as recognizable error values; everything else is
// opaque to the caller.
func (s *TranscriberService) Process(ctx context.Context, audio []byte, lang string) (*model.ProcessResult, error) {
	if s.baseURL == "" {
		if s.isDev {
			slog.Info("transcriber not configured, returning dev result", "audio_bytes", len(audio))
			return devProcessResult(), nil
		}
		return nil, fmt.Errorf("transcriber not configured (missing TRANSCRIBER_URL)")
	}

	payload := processRequest{
		Audio:    base64.StdEncoding.EncodeToString(audio),
		Language: normalizeLanguage(lang),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.doAuthorized(ctx, body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, mapProcessError(resp.StatusCode, raw)
	}

	var result model.ProcessResult
	err = json.Unmarshal(raw, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &result, nil
}

// doAuthorized performs the request, refreshing the token and retrying
// once on 401.
func (s *TranscriberService) doAuthorized(ctx context.Context, body []byte) (*http.Response, error) {
	token, err := s.currentToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.post(ctx, body, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	_ = resp.Body.Close()

	slog.Info("transcriber token rejected, re-authenticating")
	token, err = s.authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("re-authentication failed: %w", err)
	}

	return s.post(ctx, body, token)
}

func (s *TranscriberService) post(ctx context.Context, body []byte, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/process", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcriber request failed: %w", err)
	}

	return resp, nil
}

func (s *TranscriberService) currentToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token != "" {
		return token, nil
	}
	return s.authenticate(ctx)
}

func (s *TranscriberService) authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{"apiKey": s.apiKey})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/auth/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth failed with status %d", resp.StatusCode)
	}

	var auth struct {
		Token string `json:"token"`
	}
	err = json.NewDecoder(resp.Body).Decode(&auth)
	if err != nil {
		return "", fmt.Errorf("failed to parse auth response: %w", err)
	}

	s.mu.Lock()
	s.token = auth.Token
	s.mu.Unlock()

	return auth.Token, nil
}

// mapProcessError turns the transcriber's structured errors into the
// error values callers match on. Unrecognized failures stay opaque.
func mapProcessError(status int, raw []byte) error {
	var perr processError
	if json.Unmarshal(raw, &perr) == nil {
		switch perr.Error.Code {
		case errCodeTrialExpired:
			return ErrTrialExpired
		case errCodeDailyLimitReached:
			return fmt.Errorf("LIMIT_REACHED:%d:%d", perr.Error.SessionsToday, perr.Error.MaxSessions)
		}
		if perr.Error.Message != "" {
			return fmt.Errorf("transcriber error (%d): %s", status, perr.Error.Message)
		}
	}
	return fmt.Errorf("transcriber error (%d)", status)
}

// normalizeLanguage canonicalizes a BCP 47 tag, defaulting to English on
// garbage input rather than failing the recording.
func normalizeLanguage(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English.String()
	}
	return tag.String()
}

func devProcessResult() *model.ProcessResult {
	return &model.ProcessResult{
		Transcript: "(dev) transcription unavailable",
		Analysis: model.Analysis{
			Summary: "Development mode: no transcriber configured.",
			Mood:    "neutral",
			Tasks: []model.MicroTask{
				{ID: uuid.New().String(), Title: "Configure TRANSCRIBER_URL", Duration: 5},
			},
		},
		SessionID:   uuid.New().String(),
		MaxSessions: model.PremiumSessionsPerDay,
	}
}
