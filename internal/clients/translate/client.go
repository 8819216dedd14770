package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yoloprep/qbank-backend/internal/app"
	apperrors "github.com/yoloprep/qbank-backend/internal/pkg/errors"
	"github.com/yoloprep/qbank-backend/internal/pkg/logger"
)

// Client is the translation capability the rest of the backend consumes.
// Implementations never retry; the caller decides retry/skip/abort.
type Client interface {
	Translate(ctx context.Context, text string, targetLang string) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg app.Config, log *logger.Logger) (Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.TranslateBaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing TRANSLATE_BASE_URL")
	}
	return &client{
		log:        log.With("client", "translate"),
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.TranslateAPIKey),
		httpClient: &http.Client{Timeout: cfg.TranslateTimeout},
	}, nil
}

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	Text string `json:"text"`
}

// Translate trims the input, masks math spans, sends the remainder to the
// external capability and restores the spans in the response. Formula bytes
// never cross the wire unprotected. Reserved-character replacement is NOT
// applied here; punctuation has to survive translation.
func (c *client) Translate(ctx context.Context, text string, targetLang string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", nil
	}
	if strings.TrimSpace(targetLang) == "" {
		return "", &apperrors.TranslationError{Detail: "missing target language"}
	}

	masked, spans := ProtectMath(trimmed)

	translated, err := c.call(ctx, masked, targetLang)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(translated) == "" {
		return "", &apperrors.TranslationError{Detail: "empty response text"}
	}
	if missing := missingSpans(translated, spans); len(missing) > 0 {
		return "", &apperrors.TranslationError{
			Detail: fmt.Sprintf("translator dropped %d protected span(s)", len(missing)),
		}
	}
	return RestoreMath(translated, spans), nil
}

func (c *client) call(ctx context.Context, text string, targetLang string) (string, error) {
	payload, err := json.Marshal(translateRequest{Text: text, Source: "auto", Target: targetLang})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &apperrors.TranslationError{Detail: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &apperrors.TranslationError{Detail: "reading response", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &apperrors.TranslationError{
			Detail: fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(body), 200)),
		}
	}

	var out translateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &apperrors.TranslationError{Detail: "malformed response body", Cause: err}
	}
	return out.Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
