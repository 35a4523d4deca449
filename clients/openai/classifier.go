package openai

import (
	// Go Internal Packages
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	// Local Packages
	models "payguard/models"

	// External Packages
	"go.uber.org/zap"
)

const (
	systemPrompt = "You are an AI specialized in detecting Business Email Compromise (BEC) fraud."
	userPrompt   = "Analyze this email:\n\n%s\n\nReturn JSON response: {\"fraudulent\": true/false, \"reason\": \"...\"}"
)

// SafeDefaultVerdict is returned whenever the classifier cannot produce a
// validated verdict. Fail-open: availability is preferred over false
// positives.
var SafeDefaultVerdict = models.FraudVerdict{
	Fraudulent: false,
	Reason:     "AI unavailable, defaulting to safe.",
}

// Classifier screens email text for BEC fraud via the OpenAI chat API.
type Classifier struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewClassifier(apiKey, baseURL, model string, timeout time.Duration, logger *zap.Logger) *Classifier {
	return &Classifier{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Classify returns a fraud verdict for the email text. It never returns an
// error: any transport failure, timeout, non-200 or unparseable answer
// degrades to SafeDefaultVerdict. The http.Client timeout bounds the call so
// a hanging classifier cannot hang the request.
func (c *Classifier) Classify(ctx context.Context, emailText string) models.FraudVerdict {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPrompt, emailText)},
		},
		Temperature: 0,
	})
	if err != nil {
		return SafeDefaultVerdict
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return SafeDefaultVerdict
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("classifier unreachable, failing open", zap.Error(err))
		return SafeDefaultVerdict
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		c.logger.Warn("classifier returned no usable answer, failing open",
			zap.Int("status", resp.StatusCode), zap.Error(err))
		return SafeDefaultVerdict
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil || len(chat.Choices) == 0 {
		c.logger.Warn("classifier response unparseable, failing open", zap.Error(err))
		return SafeDefaultVerdict
	}

	return parseVerdict(chat.Choices[0].Message.Content, c.logger)
}

// parseVerdict validates the model's answer into a structured verdict. A
// missing "fraudulent" field means the answer did not follow the contract and
// the safe default applies.
func parseVerdict(content string, logger *zap.Logger) models.FraudVerdict {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed struct {
		Fraudulent *bool  `json:"fraudulent"`
		Reason     string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil || parsed.Fraudulent == nil {
		logger.Warn("classifier verdict malformed, failing open", zap.Error(err))
		return SafeDefaultVerdict
	}

	return models.FraudVerdict{Fraudulent: *parsed.Fraudulent, Reason: parsed.Reason}
}
