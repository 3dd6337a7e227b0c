package report

import (
	"errors"
	"time"

	contractx "oneprompt/agent/contract"
)

const (
	// BugFoundMessage marks failures outside the known taxonomy.
	BugFoundMessage = "Congratulations, you've found a bug in this application!"
	// AuthErrorPrefix opens every authentication failure message.
	AuthErrorPrefix = "Please paste your OpenAI key from openai.com to use this application. "
)

type Category string

const (
	CategoryNone           Category = ""
	CategoryAuthentication Category = "authentication"
	CategoryRateLimit      Category = "rate_limit"
	CategoryInvalidValue   Category = "invalid_value"
	CategoryInvalidRequest Category = "invalid_request"
	CategoryUnknown        Category = "unknown"
)

// Classify folds a run error into the flat five-way taxonomy.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, contractx.ErrAuthentication), errors.Is(err, contractx.ErrCredentialMissing):
		return CategoryAuthentication
	case errors.Is(err, contractx.ErrRateLimited):
		return CategoryRateLimit
	case errors.Is(err, contractx.ErrValidation):
		return CategoryInvalidValue
	case errors.Is(err, contractx.ErrInvalidRequest):
		return CategoryInvalidRequest
	default:
		return CategoryUnknown
	}
}

// Reporter renders run errors into the user-facing error_msg line. No retry,
// no recovery: every classified error is terminal for the invocation.
type Reporter struct {
	now func() time.Time
}

func NewReporter() *Reporter {
	return &Reporter{now: time.Now}
}

func (r *Reporter) Render(err error) (Category, string) {
	category := Classify(err)
	switch category {
	case CategoryNone:
		return category, ""
	case CategoryAuthentication:
		return category, AuthErrorPrefix + r.now().Format(time.DateTime) + ". " + err.Error()
	case CategoryRateLimit:
		return category, "\n\nRateLimitError: " + err.Error()
	case CategoryInvalidValue:
		return category, "\n\nInvalidValueError: " + err.Error()
	case CategoryInvalidRequest:
		return category, "\n\nInvalidRequestError: " + err.Error()
	default:
		return category, "\n\n" + BugFoundMessage + ":\n\n" + err.Error()
	}
}
