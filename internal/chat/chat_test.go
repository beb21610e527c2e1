package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt("What sells best?",
		[]domain.ProductRecord{{Product: "Widget", LastSales: 40, Stock: 12}},
		nil,
	)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, "User question: What sells best?\n\n"))
	assert.Contains(t, prompt, `Product catalog:
[{"product":"Widget","last_sales":40,"stock":12}]`)
	assert.Contains(t, prompt, "Sales transactions:\n[]")
	assert.True(t, strings.HasSuffix(prompt, "Please analyze and answer."))
}

func TestExtractReply(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{"outputs string content", `{"outputs":[{"content":"hello"}]}`, "hello", true},
		{"outputs list of text objects", `{"outputs":[{"content":[{"type":"text","text":"hi there"}]}]}`, "hi there", true},
		{"outputs list of strings", `{"outputs":[{"content":["plain"]}]}`, "plain", true},
		{"choices message", `{"choices":[{"message":{"role":"assistant","content":"from choices"}}]}`, "from choices", true},
		{"empty outputs", `{"outputs":[]}`, "", false},
		{"empty content list", `{"outputs":[{"content":[]}]}`, "", false},
		{"numeric content", `{"outputs":[{"content":42}]}`, "", false},
		{"unknown envelope", `{"result":"nope"}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body any
			require.NoError(t, json.Unmarshal([]byte(tt.body), &body))

			got, ok := ExtractReply(body)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMistralClient_SendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var req mistralRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultMistralModel, req.Model)
		assert.Equal(t, 300, req.CompletionArgs.MaxTokens)
		require.Len(t, req.Inputs, 1)
		assert.Equal(t, "user", req.Inputs[0].Role)
		assert.Equal(t, "prompt text", req.Inputs[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"outputs":[{"content":[{"text":"Widgets sell best."}]}]}`))
	}))
	defer srv.Close()

	client := NewMistralClient(MistralConfig{APIKey: "test-key", URL: srv.URL})
	reply, err := client.Complete(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "Widgets sell best.", reply)
}

func TestMistralClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	_, err := NewMistralClient(MistralConfig{APIKey: "k", URL: srv.URL}).Complete(context.Background(), "p")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
	assert.Equal(t, "Error: 401 - bad key", statusErr.Error())
}

func TestMistralClient_UnrecognizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"outputs":[{"content":null}]}`))
	}))
	defer srv.Close()

	_, err := NewMistralClient(MistralConfig{APIKey: "k", URL: srv.URL}).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrUnrecognizedReply)
}

func TestMistralClient_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewMistralClient(MistralConfig{APIKey: "k", URL: url, Timeout: time.Second}).Complete(context.Background(), "p")
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestMistralClient_MissingKey(t *testing.T) {
	_, err := NewMistralClient(MistralConfig{}).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewGeminiClient_MissingKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
