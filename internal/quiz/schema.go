package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// documentSchema describes an importable quiz: the body of POST /api/quiz
// and the quiz files read by quizctl. Kind-specific answer shapes are
// checked later by DecodeKey.
const documentSchema = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "id":    {"type": "string"},
    "title": {"type": "string"},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["number", "question_type"],
        "properties": {
          "number":        {"type": "integer", "minimum": 1},
          "text":          {"type": "string"},
          "question_type": {"enum": ["mcq_single", "mcq_multiple", "nat_integer", "nat_decimal"]},
          "options": {
            "type": "object",
            "propertyNames": {"pattern": "^[A-Za-z]$"},
            "additionalProperties": {"type": "string"}
          },
          "correct_answer": {
            "oneOf": [
              {"type": "null"},
              {"type": "string"},
              {"type": "number"},
              {"type": "array", "minItems": 1, "items": {"type": "string"}},
              {"type": "array", "minItems": 2, "maxItems": 2, "items": {"type": "number"}}
            ]
          },
          "images": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

const documentSchemaURL = "schema://quiz-document.json"

var (
	docSchemaOnce sync.Once
	docSchema     *jsonschema.Schema
	docSchemaErr  error
)

func compiledDocumentSchema() (*jsonschema.Schema, error) {
	docSchemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(documentSchema)))
		if err != nil {
			docSchemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(documentSchemaURL, def); err != nil {
			docSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		docSchema, docSchemaErr = c.Compile(documentSchemaURL)
	})
	return docSchema, docSchemaErr
}

// ValidateDocument checks raw JSON against the quiz document schema.
func ValidateDocument(raw []byte) error {
	sch, err := compiledDocumentSchema()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// DecodeDocument validates raw and decodes it into v.
func DecodeDocument(raw []byte, v any) error {
	if err := ValidateDocument(raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
