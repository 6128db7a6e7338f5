package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAI_GenerateWithSystem(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hello there."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	client, err := NewOpenAI("TEST_OPENAI_KEY", "gpt-test", srv.URL)
	require.NoError(t, err)

	out, err := client.GenerateWithSystem(context.Background(), "Translate.", "Привет.")
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", out)
	assert.Equal(t, "gpt-test", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "Привет.", got.Messages[1].Content)
	assert.Equal(t, "gpt-test", client.ModelName())
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	client, err := NewOpenAI("UNSET_KEY_FOR_TEST", "local", srv.URL)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "empty response")
}

func TestNewOpenAI_MissingKey(t *testing.T) {
	_, err := NewOpenAI("UNSET_KEY_FOR_TEST", "gpt-test", "")
	assert.ErrorContains(t, err, "UNSET_KEY_FOR_TEST")
}

func TestClaude_GenerateWithSystem(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test","content":[{"type":"text","text":"{\"polarity\":0.5}"}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_ANTHROPIC_KEY", "key")
	client, err := NewClaude("TEST_ANTHROPIC_KEY", "claude-test", 0,
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	require.NoError(t, err)

	out, err := client.GenerateWithSystem(context.Background(), "Score it.", "Nice day.")
	require.NoError(t, err)
	assert.Equal(t, `{"polarity":0.5}`, out)
	assert.Equal(t, "claude-test", got["model"])
	assert.Equal(t, float64(1024), got["max_tokens"])
	assert.NotNil(t, got["system"])
}

func TestNewClaude_MissingKey(t *testing.T) {
	_, err := NewClaude("UNSET_KEY_FOR_TEST", "claude-test", 0)
	assert.Error(t, err)
}
