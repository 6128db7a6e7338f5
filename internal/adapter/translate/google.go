package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"readscore/internal/port"
)

const (
	defaultGoogleURL = "https://translate.googleapis.com/translate_a/single"

	// maxChunkRunes keeps each request well below the endpoint's payload limit.
	maxChunkRunes = 4500
)

// Google translates through the public Google Translate web endpoint.
type Google struct {
	baseURL string
	target  string
	client  *http.Client
}

func NewGoogle(baseURL, target string, timeout time.Duration) *Google {
	if baseURL == "" {
		baseURL = defaultGoogleURL
	}
	if target == "" {
		target = "en"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Google{
		baseURL: baseURL,
		target:  target,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *Google) Translate(ctx context.Context, text string) (string, error) {
	var sb strings.Builder
	for _, chunk := range splitChunks(text, maxChunkRunes) {
		out, err := g.translateChunk(ctx, chunk)
		if err != nil {
			return "", err
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}

func (g *Google) translateChunk(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", g.target)
	params.Set("dt", "t")

	form := url.Values{}
	form.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"?"+params.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate API returned status %d: %s", resp.StatusCode, preview(body))
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse extracts the translated segments from the nested array
// payload: [[["translated","source",...],...],null,"ru",...].
func parseGoogleResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to parse response (body: %s): %w", preview(body), err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("translate API returned empty response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("translate API returned unexpected payload (body: %s)", preview(body))
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			sb.WriteString(s)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("translate API returned no text")
	}
	return sb.String(), nil
}

// splitChunks cuts text at whitespace so no piece exceeds limit runes.
// A single word longer than limit becomes its own chunk.
func splitChunks(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var sb strings.Builder
	n := 0
	for _, word := range strings.Fields(text) {
		wl := utf8.RuneCountInString(word)
		if n > 0 && n+1+wl > limit {
			chunks = append(chunks, sb.String())
			sb.Reset()
			n = 0
		}
		if n > 0 {
			sb.WriteByte(' ')
			n++
		}
		sb.WriteString(word)
		n += wl
	}
	if sb.Len() > 0 {
		chunks = append(chunks, sb.String())
	}
	return chunks
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

var _ port.Translator = (*Google)(nil)
