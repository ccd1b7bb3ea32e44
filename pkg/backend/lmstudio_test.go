package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lmStub struct {
	healthy   bool
	chatCalls int
	reply     string
}

func (s *lmStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models":
			if !s.healthy {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, `{"data":[{"id":"openai/gpt-oss-20b"}]}`)
		case "/v1/chat/completions":
			s.chatCalls++
			fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, s.reply)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newFailoverBackend(primary, fallback string) *LMStudioBackend {
	b := NewLMStudioBackend(LMStudioConfig{Model: "test-model"}, nil)
	b.endpoints = []string{primary + "/v1", fallback + "/v1"}
	return b
}

func TestLMStudioUsesFirstHealthyEndpoint(t *testing.T) {
	first := &lmStub{healthy: true, reply: "from first"}
	second := &lmStub{healthy: true, reply: "from second"}
	s1, s2 := first.server(t), second.server(t)
	defer s1.Close()
	defer s2.Close()

	b := newFailoverBackend(s1.URL, s2.URL)
	out, err := b.Generate(context.Background(), "s", "u", "")
	require.NoError(t, err)
	assert.Equal(t, "from first", out)
	assert.Equal(t, 0, second.chatCalls)
}

func TestLMStudioFailsOverWhenProbeFails(t *testing.T) {
	first := &lmStub{healthy: false, reply: "never"}
	second := &lmStub{healthy: true, reply: "from fallback"}
	s1, s2 := first.server(t), second.server(t)
	defer s1.Close()
	defer s2.Close()

	b := newFailoverBackend(s1.URL, s2.URL)
	out, err := b.Generate(context.Background(), "s", "u", "")
	require.NoError(t, err)
	assert.Equal(t, "from fallback", out)
	// The unhealthy endpoint is skipped before chat, not after.
	assert.Equal(t, 0, first.chatCalls)
}

func TestLMStudioAllEndpointsDown(t *testing.T) {
	first := &lmStub{healthy: false}
	second := &lmStub{healthy: false}
	s1, s2 := first.server(t), second.server(t)
	defer s1.Close()
	defer s2.Close()

	b := newFailoverBackend(s1.URL, s2.URL)
	_, err := b.Generate(context.Background(), "s", "u", "")
	require.Error(t, err)
	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, ErrUnreachable, be.Code)
	assert.Equal(t, 0, first.chatCalls+second.chatCalls)
}

func TestLMStudioSendsChatPayload(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models":
			fmt.Fprint(w, `{"data":[]}`)
		case "/v1/chat/completions":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
		}
	}))
	defer srv.Close()

	b := NewLMStudioBackend(LMStudioConfig{BaseURL: srv.URL + "/v1", Model: "m"}, nil)
	_, err := b.Generate(context.Background(), "SYS", "USR", "")
	require.NoError(t, err)

	assert.Equal(t, "m", gotBody["model"])
	assert.Equal(t, 0.2, gotBody["temperature"])
	msgs := gotBody["messages"].([]interface{})
	require.Len(t, msgs, 2)
	sys := msgs[0].(map[string]interface{})
	usr := msgs[1].(map[string]interface{})
	assert.Equal(t, "system", sys["role"])
	assert.Equal(t, "SYS", sys["content"])
	assert.Equal(t, "user", usr["role"])
	assert.Equal(t, "USR", usr["content"])
}

func TestLMStudioBaseURLOverridesCandidates(t *testing.T) {
	b := NewLMStudioBackend(LMStudioConfig{BaseURL: "http://10.0.0.5:1234/v1", FallbackURL: "http://ignored"}, nil)
	assert.Equal(t, []string{"http://10.0.0.5:1234/v1"}, b.endpoints)
}

func TestLMStudioDefaultCandidatesPlusFallback(t *testing.T) {
	b := NewLMStudioBackend(LMStudioConfig{FallbackURL: "http://extra:1234/v1"}, nil)
	require.Len(t, b.endpoints, 3)
	assert.Equal(t, "http://extra:1234/v1", b.endpoints[2])
}

func TestLMStudioListModelsFailsOver(t *testing.T) {
	first := &lmStub{healthy: false}
	second := &lmStub{healthy: true}
	s1, s2 := first.server(t), second.server(t)
	defer s1.Close()
	defer s2.Close()

	b := newFailoverBackend(s1.URL, s2.URL)
	models, err := b.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"openai/gpt-oss-20b"}, models)
}
