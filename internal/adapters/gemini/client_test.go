package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusconnect/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Success(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello "},{"text":"campus"}]}}]}`))
	}))
	defer srv.Close()

	gen := NewTextGenerator(srv.Client(), "secret", "", WithBaseURL(srv.URL+"/"))
	out, err := gen.Generate(context.Background(), "write something", domain.GenerationOptions{Temperature: 0.7, MaxOutputTokens: 300})
	require.NoError(t, err)
	assert.Equal(t, "Hello campus", out)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "write something", got.Contents[0].Parts[0].Text)
	assert.Equal(t, 0.7, got.GenerationConfig.Temperature)
	assert.Equal(t, 300, got.GenerationConfig.MaxOutputTokens)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "api error", status: http.StatusTooManyRequests, body: `{"error":{"code":429,"message":"quota exceeded"}}`, wantMsg: "quota exceeded"},
		{name: "plain error", status: http.StatusBadGateway, body: `bad gateway`, wantMsg: "502"},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantMsg: "no candidates"},
		{name: "garbage", status: http.StatusOK, body: `{`, wantMsg: "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			gen := NewTextGenerator(srv.Client(), "secret", "gemini-2.0-flash", WithBaseURL(srv.URL))
			_, err := gen.Generate(context.Background(), "p", domain.GenerationOptions{})
			require.ErrorIs(t, err, domain.ErrUpstream)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestGenerate_NoKey(t *testing.T) {
	gen := NewTextGenerator(nil, "", "")
	_, err := gen.Generate(context.Background(), "p", domain.GenerationOptions{})
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
