package extract

import (
	"context"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"

	"github.com/nmcnair22/billscan/internal/llm"
	"github.com/nmcnair22/billscan/internal/model"
)

// slbSchema constrains the answer for a single-location bill. The account
// object must be present; its fields and the line items are repaired or
// flagged downstream.
const slbSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["account"],
	"properties": {
		"account": {
			"type": "object",
			"properties": {
				"account_number": {"type": "string"},
				"invoice_date": {"type": "string"},
				"total_due": {"type": "string"},
				"vendor_name": {"type": "string"}
			}
		},
		"line_items": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"description": {"type": "string"},
					"date_range": {"type": "string"},
					"recurring_charges": {"type": "string"},
					"taxes_fees": {"type": "string"},
					"total": {"type": "string"}
				}
			}
		}
	}
}`

var compiledSLBSchema = jsonschema.MustCompileString("slb_schema.json", slbSchema)

// SingleExtractor handles single-location bills: one completion call over
// the whole document, no chunking.
type SingleExtractor struct {
	provider   llm.Provider
	promptBase string
	logger     *logrus.Logger
}

func NewSingleExtractor(provider llm.Provider, promptBase string, logger *logrus.Logger) *SingleExtractor {
	if logger == nil {
		logger = logrus.New()
	}
	return &SingleExtractor{
		provider:   provider,
		promptBase: promptBase,
		logger:     logger,
	}
}

// Extract sends the full bill content in one prompt and parses the
// single-account answer
func (s *SingleExtractor) Extract(ctx context.Context, content string) (*model.SLBResult, error) {
	prompt := s.promptBase + "\n\nBill content: " + content

	answer, err := s.provider.Complete(ctx, prompt, true)
	if err != nil {
		return nil, err
	}

	result, err := ParseSLBResult(llm.StripCodeFences(answer))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"account":    result.Account.AccountNumber,
		"line_items": len(result.LineItems),
	}).Debug("extracted single-location bill")
	return result, nil
}

// ParseSLBResult validates and coerces a raw completion answer into an
// SLBResult, with the same money-field coercion as chunk records
func ParseSLBResult(raw string) (*model.SLBResult, error) {
	var loose interface{}
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		return nil, model.NewParseError("single bill extraction response", err)
	}

	coerced := coerceValues(loose, "")

	if err := compiledSLBSchema.Validate(coerced); err != nil {
		return nil, model.NewParseError("single bill extraction response", err)
	}

	normalized, err := json.Marshal(coerced)
	if err != nil {
		return nil, model.NewParseError("single bill extraction response", err)
	}
	var result model.SLBResult
	if err := json.Unmarshal(normalized, &result); err != nil {
		return nil, model.NewParseError("single bill extraction response", err)
	}
	return &result, nil
}
