package llm

import (
	"context"
	"fmt"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/camberhealth/clinsum/internal/config"
	"github.com/camberhealth/clinsum/internal/observability"
	"github.com/camberhealth/clinsum/internal/pkg/httpx"
	"github.com/camberhealth/clinsum/internal/platform/logger"
)

type AnthropicClient struct {
	client     *anthropic.Client
	model      string
	maxRetries int
	timeout    time.Duration
	retryBase  time.Duration
	retryMax   time.Duration
	log        *logger.Logger
}

func NewAnthropicClient(cfg config.LLMConfig, log *logger.Logger) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	retryBase := cfg.RetryBase
	if retryBase <= 0 {
		retryBase = 500 * time.Millisecond
	}
	retryMax := cfg.RetryMax
	if retryMax <= 0 {
		retryMax = 8 * time.Second
	}
	return &AnthropicClient{
		client:     anthropic.NewClient(cfg.APIKey),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		timeout:    cfg.Timeout,
		retryBase:  retryBase,
		retryMax:   retryMax,
		log:        log.With("client", "AnthropicClient"),
	}, nil
}

// Generate calls the Messages API with exponential backoff. Only transient
// failures (408/429/5xx, network timeouts) are retried; auth and validation
// errors surface immediately.
func (c *AnthropicClient) Generate(ctx context.Context, req Request) (*Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	backoff := c.retryBase

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, err := c.client.CreateMessages(ctx, c.buildRequest(req))
		if err == nil {
			result := c.buildResult(resp, time.Since(start))
			if metrics := observability.Current(); metrics != nil {
				metrics.ObserveLLMRequest(c.model, req.Task, "200", result.Latency, result.InputTokens, result.OutputTokens)
			}
			return result, nil
		}
		lastErr = err

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			if metrics := observability.Current(); metrics != nil {
				metrics.ObserveLLMRequest(c.model, req.Task, "error", time.Since(start), 0, 0)
			}
			return nil, err
		}

		sleepFor := httpx.JitterSleep(backoff)
		if sleepFor > c.retryMax {
			sleepFor = c.retryMax
		}
		c.log.Warn("LLM request retrying",
			"task", req.Task,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}

	return nil, lastErr
}

func (c *AnthropicClient) buildRequest(req Request) anthropic.MessagesRequest {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	temperature := req.Temperature

	out := anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(req.Prompt)},
			},
		},
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}
	if req.System != "" {
		out.MultiSystem = []anthropic.MessageSystemPart{{Type: "text", Text: req.System}}
	}
	return out
}

func (c *AnthropicClient) buildResult(resp anthropic.MessagesResponse, latency time.Duration) *Result {
	var text string
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text += *block.Text
		}
	}
	return &Result{
		Text:         text,
		Model:        c.model,
		StopReason:   string(resp.StopReason),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		CostUSD:      observability.LLMCostUSD(resp.Usage.InputTokens, resp.Usage.OutputTokens),
		Latency:      latency,
	}
}
