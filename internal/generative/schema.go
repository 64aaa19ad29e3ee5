package generative

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Both schemas stay permissive about types the model gets loosely right (a score sent as
// "85", a null list); normalization handles those. The core keys are required so an
// unrelated object, such as a provider error body, never passes as an analysis.
const analysisSchemaJSON = `{
  "type": "object",
  "required": ["summary", "skills", "experience"],
  "properties": {
    "summary": {"type": "string"},
    "skills": {
      "type": "object",
      "properties": {
        "technical": {"$ref": "#/$defs/strings"},
        "soft": {"$ref": "#/$defs/strings"},
        "tools": {"$ref": "#/$defs/strings"}
      }
    },
    "experience": {
      "type": "object",
      "properties": {
        "years": {"type": ["string", "number", "null"]},
        "level": {"type": ["string", "null"]},
        "highlights": {"$ref": "#/$defs/strings"}
      }
    },
    "education": {
      "type": ["object", "null"],
      "properties": {
        "degree": {"type": ["string", "null"]},
        "field": {"type": ["string", "null"]},
        "institution": {"type": ["string", "null"]}
      }
    },
    "strengths": {"$ref": "#/$defs/strings"},
    "areas_for_improvement": {"$ref": "#/$defs/strings"},
    "score": {"type": ["number", "string", "null"]},
    "recommendations": {"$ref": "#/$defs/strings"}
  },
  "$defs": {
    "strings": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

const comparisonSchemaJSON = `{
  "type": "object",
  "required": ["match_score"],
  "properties": {
    "match_score": {"type": ["number", "string"]},
    "matching_skills": {"$ref": "#/$defs/strings"},
    "missing_skills": {"$ref": "#/$defs/strings"},
    "strengths": {"$ref": "#/$defs/strings"},
    "concerns": {"$ref": "#/$defs/strings"},
    "recommendations": {"$ref": "#/$defs/strings"}
  },
  "$defs": {
    "strings": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

var (
	analysisSchema   = mustCompileSchema("analysis.json", analysisSchemaJSON)
	comparisonSchema = mustCompileSchema("comparison.json", comparisonSchemaJSON)
)

func mustCompileSchema(name, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return schema
}

// decodeValidated checks raw against schema and then decodes it into out.
func decodeValidated(schema *jsonschema.Schema, raw string, out any) error {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
