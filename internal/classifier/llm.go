package classifier

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jonathan/resutrack/internal/llm"
	"github.com/jonathan/resutrack/internal/prompts"
	"github.com/jonathan/resutrack/internal/schemas"
	embedded "github.com/jonathan/resutrack/schemas"
	"github.com/rs/zerolog"
)

const (
	promptFile = "classifier.json"
	promptKey  = "classify-resume-link"
)

// LLMClassifier delegates the judgment to a prompted text-generation model.
type LLMClassifier struct {
	client llm.Client
	tier   llm.ModelTier
	logger zerolog.Logger
}

// LLMOption configures an LLMClassifier.
type LLMOption func(*LLMClassifier)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) LLMOption {
	return func(c *LLMClassifier) { c.logger = l }
}

// NewLLMClassifier creates a classifier backed by client.
func NewLLMClassifier(client llm.Client, opts ...LLMOption) *LLMClassifier {
	c := &LLMClassifier{
		client: client,
		tier:   llm.TierLite,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify asks the model for a verdict on resumeLink.
func (c *LLMClassifier) Classify(ctx context.Context, resumeLink, companyName string) (Result, error) {
	if _, err := parseLink(resumeLink); err != nil {
		return Result{}, err
	}

	if found := suspiciousKeywords(resumeLink + " " + companyName); len(found) > 0 {
		c.logger.Warn().Strs("keywords", found).Str("resume_link", resumeLink).Msg("possible prompt injection in entry fields")
		companyName = redactInjection(companyName)
	}

	prompt, err := prompts.Render(promptFile, promptKey, map[string]string{
		"ResumeLink":  quoteField("resume link", resumeLink),
		"CompanyName": quoteField("company name", companyName),
	})
	if err != nil {
		return Result{}, &ClassificationError{Message: "failed to build prompt", Cause: err}
	}

	responseText, err := c.client.GenerateJSON(ctx, prompt, c.tier)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, &ClassificationError{Message: "model call did not finish in time", Cause: errors.Join(ErrClassificationTimeout, err)}
		}
		return Result{}, &ClassificationError{Message: "failed to generate content from LLM", Cause: err}
	}

	result, err := ParseVerdict(responseText)
	if err != nil {
		c.logger.Warn().Err(err).Str("resume_link", resumeLink).Msg("unusable classifier response")
		return Result{}, err
	}

	c.logger.Debug().
		Str("resume_link", resumeLink).
		Bool("is_valid", result.IsValid).
		Msg("link classified")
	return result, nil
}

// ParseVerdict decodes a model reply into a Result. The reply must be a JSON
// object with a boolean isValid and a non-empty tips string; the older
// linkValidationTips key is accepted in place of tips.
func ParseVerdict(responseText string) (Result, error) {
	cleaned := llm.CleanJSONBlock(responseText)

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return Result{}, &ClassificationError{Message: "response is not a JSON object", Cause: err}
	}
	if _, ok := raw["tips"]; !ok {
		if legacy, ok := raw["linkValidationTips"]; ok {
			raw["tips"] = legacy
		}
	}
	delete(raw, "linkValidationTips")

	normalized, err := json.Marshal(raw)
	if err != nil {
		return Result{}, &ClassificationError{Message: "failed to normalize response", Cause: err}
	}
	if err := schemas.Validate(embedded.LinkVerdict, normalized); err != nil {
		return Result{}, &ClassificationError{Message: "response does not match verdict schema", Cause: err}
	}

	var result Result
	if err := json.Unmarshal(normalized, &result); err != nil {
		return Result{}, &ClassificationError{Message: "failed to decode verdict", Cause: err}
	}
	return result, nil
}
