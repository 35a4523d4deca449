package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func chatAnswer(content string) string {
	answer := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	b, _ := json.Marshal(answer)
	return string(b)
}

func newTestClassifier(t *testing.T, handler http.HandlerFunc) (*Classifier, *httptest.Server) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClassifier("test-key", srv.URL, "gpt-4", time.Second, zap.NewNop()), srv
}

func TestClassifyParsesVerdict(t *testing.T) {
	c, _ := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(chatAnswer(`{"fraudulent": true, "reason": "urgency + new vendor"}`)))
	})

	verdict := c.Classify(context.Background(), "URGENT wire transfer needed today")
	assert.True(t, verdict.Fraudulent)
	assert.Equal(t, "urgency + new vendor", verdict.Reason)
}

func TestClassifyStripsCodeFences(t *testing.T) {
	c, _ := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatAnswer("```json\n{\"fraudulent\": false, \"reason\": \"routine invoice\"}\n```")))
	})

	verdict := c.Classify(context.Background(), "Please pay invoice")
	assert.False(t, verdict.Fraudulent)
	assert.Equal(t, "routine invoice", verdict.Reason)
}

func TestClassifyFailsOpenOnServerError(t *testing.T) {
	c, _ := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	verdict := c.Classify(context.Background(), "Please pay invoice")
	assert.Equal(t, SafeDefaultVerdict, verdict)
}

func TestClassifyFailsOpenOnMalformedVerdict(t *testing.T) {
	cases := []string{
		chatAnswer("sorry, I cannot analyze this"),
		chatAnswer(`{"reason": "missing fraudulent field"}`),
		`{"choices": []}`,
		`not json at all`,
	}

	for _, body := range cases {
		body := body
		c, _ := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		verdict := c.Classify(context.Background(), "Please pay invoice")
		assert.Equal(t, SafeDefaultVerdict, verdict, "body %s", body)
	}
}

func TestClassifyFailsOpenOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(chatAnswer(`{"fraudulent": true, "reason": "too late"}`)))
	}))
	t.Cleanup(srv.Close)

	c := NewClassifier("test-key", srv.URL, "gpt-4", 20*time.Millisecond, zap.NewNop())
	verdict := c.Classify(context.Background(), "Please pay invoice")
	assert.Equal(t, SafeDefaultVerdict, verdict)
}

func TestClassifyFailsOpenWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClassifier("test-key", srv.URL, "gpt-4", time.Second, zap.NewNop())
	verdict := c.Classify(context.Background(), "Please pay invoice")
	assert.Equal(t, SafeDefaultVerdict, verdict)
}
