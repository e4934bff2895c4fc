package llm

import (
	"context"
	"time"
)

// Request carries one rendered prompt plus the generation parameters the
// prompt version recommends.
type Request struct {
	Task        string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

type Result struct {
	Text         string
	Model        string
	StopReason   string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Latency      time.Duration
}

type Client interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}
