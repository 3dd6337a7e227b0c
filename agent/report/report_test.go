package report

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	contractx "oneprompt/agent/contract"
)

func fixedReporter() *Reporter {
	return &Reporter{
		now: func() time.Time {
			return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
		},
	}
}

func TestRenderSuccess(t *testing.T) {
	t.Parallel()

	category, msg := fixedReporter().Render(nil)
	if category != CategoryNone {
		t.Fatalf("unexpected category: %q", category)
	}
	if msg != "" {
		t.Fatalf("expected empty message, got %q", msg)
	}
}

func TestRenderAuthentication(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: 401 incorrect api key", contractx.ErrAuthentication)
	category, msg := fixedReporter().Render(err)
	if category != CategoryAuthentication {
		t.Fatalf("unexpected category: %q", category)
	}
	if !strings.HasPrefix(msg, AuthErrorPrefix) {
		t.Fatalf("message missing auth prefix: %q", msg)
	}
	if !strings.Contains(msg, "2026-03-14 09:26:53") {
		t.Fatalf("message missing timestamp: %q", msg)
	}
}

func TestRenderRateLimit(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: 429 too many requests", contractx.ErrRateLimited)
	category, msg := fixedReporter().Render(err)
	if category != CategoryRateLimit {
		t.Fatalf("unexpected category: %q", category)
	}
	if !strings.Contains(msg, "RateLimitError") {
		t.Fatalf("message missing RateLimitError: %q", msg)
	}
}

func TestRenderInvalidValue(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: prompt is empty", contractx.ErrValidation)
	category, msg := fixedReporter().Render(err)
	if category != CategoryInvalidValue {
		t.Fatalf("unexpected category: %q", category)
	}
	if !strings.Contains(msg, "InvalidValueError") {
		t.Fatalf("message missing InvalidValueError: %q", msg)
	}
}

func TestRenderInvalidRequest(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: 400 bad request shape", contractx.ErrInvalidRequest)
	category, msg := fixedReporter().Render(err)
	if category != CategoryInvalidRequest {
		t.Fatalf("unexpected category: %q", category)
	}
	if !strings.Contains(msg, "InvalidRequestError") {
		t.Fatalf("message missing InvalidRequestError: %q", msg)
	}
}

func TestRenderUnknown(t *testing.T) {
	t.Parallel()

	category, msg := fixedReporter().Render(errors.New("nil pointer dereference"))
	if category != CategoryUnknown {
		t.Fatalf("unexpected category: %q", category)
	}
	if !strings.Contains(msg, BugFoundMessage) {
		t.Fatalf("message missing bug marker: %q", msg)
	}
	if !strings.Contains(msg, "nil pointer dereference") {
		t.Fatalf("message missing cause: %q", msg)
	}
}

func TestClassifyCredentialMissingAsAuthentication(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: please set OPENAI_API_KEY environment variable", contractx.ErrCredentialMissing)
	if got := Classify(err); got != CategoryAuthentication {
		t.Fatalf("unexpected category: %q", got)
	}
}

func TestRenderDeterministic(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: 429 slow down", contractx.ErrRateLimited)
	reporter := fixedReporter()
	_, first := reporter.Render(err)
	_, second := reporter.Render(err)
	if first != second {
		t.Fatalf("expected identical renders, got %q and %q", first, second)
	}
}
