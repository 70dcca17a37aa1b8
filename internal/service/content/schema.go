package content

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// collectionSchema describes the persisted collection. It accepts what the
// browser build wrote to localStorage, so existing exports load unchanged.
const collectionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "type", "location", "timestamp", "data"],
    "properties": {
      "id": {"type": "integer"},
      "type": {"type": "string", "minLength": 1},
      "location": {
        "type": "object",
        "required": ["lat", "lng"],
        "properties": {
          "lat": {"type": "number", "minimum": -90, "maximum": 90},
          "lng": {"type": "number", "minimum": -180, "maximum": 180}
        }
      },
      "timestamp": {"type": "string", "format": "date-time"},
      "data": {
        "type": "object",
        "properties": {
          "text": {"type": "string"},
          "color": {"type": "string"},
          "author": {"type": "string"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(collectionSchema)

// validateCollection checks a serialized collection against collectionSchema.
func validateCollection(raw string) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("failed to validate collection: %w", err)
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		issues = append(issues, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return fmt.Errorf("collection does not match schema: %s", strings.Join(issues, "; "))
}
