package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateResult gates a generation before it is returned to a caller. A
// truncated or suspiciously short summary of a clinical note is worse than a
// hard failure.
func ValidateResult(res *Result, minChars int) error {
	if res == nil {
		return errors.New("nil generation result")
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return errors.New("model returned an empty response")
	}
	if minChars > 0 && len(text) < minChars {
		return fmt.Errorf("model response too short: %d chars (minimum %d)", len(text), minChars)
	}
	if res.StopReason == "max_tokens" {
		return errors.New("model response truncated at max_tokens")
	}
	return nil
}
