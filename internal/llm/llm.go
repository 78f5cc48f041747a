// Package llm abstracts the external generator boundary. The boundary is
// unreliable and latent by contract: callers must treat every Complete error
// as either a rate-limit signal or a transient transport failure and decide
// retry behavior themselves.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// Provider is the interface for generator backends. Implementations hold
// their own credential; they never read ambient state after construction.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// NewProvider is the factory for creating providers. It is a package-level
// variable so tests can replace it with a stub without modifying the call
// site. Tests must restore the original value; use t.Cleanup to do so
// safely.
var NewProvider func(providerName, apiKey, model string) (Provider, error) = defaultNewProvider

func defaultNewProvider(providerName, apiKey, model string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: missing API key for provider %q", providerName)
	}
	switch strings.ToLower(providerName) {
	case "google", "":
		return newGoogleProvider(apiKey, model), nil
	case "anthropic":
		return newAnthropicProvider(apiKey, model), nil
	case "openai":
		return newOpenAIProvider(apiKey, model), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", providerName)
	}
}

// rateLimitMarkers are substrings that identify a rate-limit rejection when
// the error carries no typed status code.
var rateLimitMarkers = []string{
	"429",
	"rate limit",
	"resource_exhausted",
	"quota",
}

// IsRateLimit reports whether err is a rate-limit rejection from the
// generator, as opposed to an ordinary transient failure. Typed API errors
// are inspected first; the string markers cover SDKs that flatten the
// status into the message.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
