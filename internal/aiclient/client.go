// Package aiclient calls the hosted Gemini text-generation service over its
// REST surface. Failures map onto the service error taxonomy (bad credential,
// blocked response, malformed reply) and are never retried.
package aiclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"academiapulse/internal/apperrors"
)

const (
	// Model choices follow the workload: the pro model for analysis-heavy
	// generation, flash for parsing and drafting, flash-lite for chat turns.
	ModelPro       = "gemini-2.5-pro"
	ModelFlash     = "gemini-2.5-flash"
	ModelFlashLite = "gemini-flash-lite-latest"
)

// Client calls the generative text service.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client. With skip set, every call returns canned output so
// the rest of the application works without a credential.
func New(baseURL, apiKey string, skip bool) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: 60 * time.Second, // generation can take a while
		},
	}
}

// Message is one turn of a conversation transcript.
type Message struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      *float64        `json:"temperature,omitempty"`
	MaxOutputTokens  int             `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

func contentsFromTranscript(transcript []Message) []content {
	out := make([]content, 0, len(transcript))
	for _, m := range transcript {
		out = append(out, content{Role: m.Role, Parts: []part{{Text: m.Text}}})
	}
	return out
}

// generate performs one non-streaming generateContent call and returns the
// first candidate's text.
func (c *Client) generate(ctx context.Context, model string, req generateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, model, c.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("text service request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", statusError(resp.StatusCode, respBody)
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrMalformedReply, err)
	}
	return candidateText(out)
}

// stream performs a streamGenerateContent call over SSE, invoking onChunk for
// each text fragment in arrival order and returning the accumulated reply.
func (c *Client) stream(ctx context.Context, model string, req generateRequest, onChunk func(string)) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", c.BaseURL, model, c.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("text service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", statusError(resp.StatusCode, respBody)
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}
		var out generateResponse
		if err := json.Unmarshal([]byte(data), &out); err != nil {
			return full.String(), fmt.Errorf("%w: bad stream chunk: %v", apperrors.ErrMalformedReply, err)
		}
		chunk, err := candidateText(out)
		if err != nil {
			return full.String(), err
		}
		full.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("text service stream failed: %w", err)
	}
	return full.String(), nil
}

func candidateText(out generateResponse) (string, error) {
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", apperrors.ErrBlockedResponse, out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", apperrors.ErrMalformedReply)
	}
	cand := out.Candidates[0]
	if cand.FinishReason == "SAFETY" {
		return "", fmt.Errorf("%w: finish reason %s", apperrors.ErrBlockedResponse, cand.FinishReason)
	}
	var text strings.Builder
	for _, p := range cand.Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

func statusError(status int, body []byte) error {
	msg := string(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden ||
		strings.Contains(msg, "API key not valid") || strings.Contains(msg, "API_KEY_INVALID"):
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidCredential, http.StatusText(status))
	default:
		return fmt.Errorf("text service error %d: %s", status, truncate(msg, 300))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
