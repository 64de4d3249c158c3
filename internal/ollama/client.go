package ollama

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aiground/linkdigest/internal/config"
)

// requestTimeout bounds a single chat call. Summaries of long pages can take
// minutes on local models.
const requestTimeout = 300 * time.Second

type (
	Client struct {
		http           *resty.Client
		url            string
		defaultModel   string
		translateModel string
		logger         *zap.SugaredLogger
	}

	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	chatRequest struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
		Stream   bool          `json:"stream"`
	}

	chatResponse struct {
		Message chatMessage `json:"message"`
	}
)

func NewClient(cfg *config.Config, logger *zap.SugaredLogger) *Client {
	return &Client{
		http:           resty.New().SetTimeout(requestTimeout),
		url:            cfg.OllamaURL,
		defaultModel:   cfg.OllamaModel,
		translateModel: cfg.TranslateModel,
		logger:         logger,
	}
}

// Chat sends one system+user exchange to the Ollama chat endpoint and returns
// the reply text. An empty reply is an error.
func (c *Client) Chat(ctx context.Context, model, system, user string) (string, error) {
	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
	}

	resp := chatResponse{}
	r, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(&req).
		SetResult(&resp).
		Post(c.url)
	if err != nil {
		return "", errors.Wrap(err, "ollama request")
	}
	if r.IsError() {
		return "", errors.Errorf("ollama request failed: %s", r.Status())
	}
	if resp.Message.Content == "" {
		return "", errors.New("ollama reply is empty")
	}

	return resp.Message.Content, nil
}

// Summarize asks the model to rewrite content as a structured markdown digest.
// An empty model falls back to the configured default.
func (c *Client) Summarize(ctx context.Context, text, model string) (string, error) {
	if model == "" {
		model = c.defaultModel
	}
	c.logger.Infow("requesting summary", "model", model, "content_len", len(text))

	reply, err := c.Chat(ctx, model, summarySystemPrompt, summaryUserPrompt(text))
	if err != nil {
		return "", errors.Wrap(err, "summarize")
	}
	return reply, nil
}

// TranslateToKorean translates English text with the dedicated translate
// model. The caller decides whether translation is needed at all.
func (c *Client) TranslateToKorean(ctx context.Context, text string) (string, error) {
	reply, err := c.Chat(ctx, c.translateModel, translateSystemPrompt, translateUserPrompt(text))
	if err != nil {
		return "", errors.Wrap(err, "translate")
	}
	return reply, nil
}
