package extract

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nmcnair22/billscan/internal/model"
)

// chunkSchema constrains the completion service's answer for one chunk.
// Everything is optional except the sub_accounts array itself: the model is
// unreliable about individual fields, and repair happens downstream, but a
// response without the expected top-level shape is a parse failure.
const chunkSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["sub_accounts"],
	"properties": {
		"sub_accounts": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"sub_account_number": {"type": "string"},
					"location": {"type": "string"},
					"total_due": {"type": "string"},
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
			}
		}
	}
}`

var compiledChunkSchema = jsonschema.MustCompileString("chunk_schema.json", chunkSchema)

// moneyKeys are the fields the model sometimes returns as bare numbers
// instead of currency strings
var moneyKeys = map[string]bool{
	"total_due":         true,
	"total":             true,
	"recurring_charges": true,
	"taxes_fees":        true,
}

// Record is the structured extraction output for one chunk
type Record struct {
	SubAccounts []model.SubAccount `json:"sub_accounts"`
}

// ParseRecord validates and coerces a raw completion answer into a Record.
// Numeric money values are coerced to "$X.XX" strings and nulls dropped
// before schema validation, so only genuinely malformed answers fail.
func ParseRecord(raw string) (*Record, error) {
	var loose interface{}
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		return nil, model.NewParseError("chunk extraction response", err)
	}

	coerced := coerceValues(loose, "")

	if err := compiledChunkSchema.Validate(coerced); err != nil {
		return nil, model.NewParseError("chunk extraction response", err)
	}

	// Round-trip through JSON into the typed record
	normalized, err := json.Marshal(coerced)
	if err != nil {
		return nil, model.NewParseError("chunk extraction response", err)
	}
	var record Record
	if err := json.Unmarshal(normalized, &record); err != nil {
		return nil, model.NewParseError("chunk extraction response", err)
	}
	return &record, nil
}

// coerceValues walks the loose JSON value, formatting numeric money fields
// as currency strings, stringifying stray numbers, and dropping nulls
func coerceValues(v interface{}, key string) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if val == nil {
				continue
			}
			out[k] = coerceValues(val, k)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			out = append(out, coerceValues(item, key))
		}
		return out
	case float64:
		if moneyKeys[key] {
			return fmt.Sprintf("$%.2f", t)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return v
	}
}
