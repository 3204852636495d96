package client

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// lessonDetailSchema describes the GET /lessons/:id payload. Answers are
// never part of it.
const lessonDetailSchema = `{
  "type": "object",
  "required": ["data"],
  "properties": {
    "data": {
      "type": "object",
      "required": ["lesson_id", "lesson_name", "problems"],
      "properties": {
        "lesson_id": {"type": "string", "minLength": 1},
        "lesson_name": {"type": "string"},
        "problems": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["problem_id", "question", "reward_xp", "order", "options"],
            "properties": {
              "problem_id": {"type": "string", "minLength": 1},
              "question": {"type": "string"},
              "reward_xp": {"type": "string", "pattern": "^[0-9]+$"},
              "order": {"type": "integer", "minimum": 1},
              "options": {
                "type": "array",
                "items": {
                  "type": "object",
                  "required": ["problem_option_id", "option"],
                  "properties": {
                    "problem_option_id": {"type": "string", "minLength": 1},
                    "problem_id": {"type": "string"},
                    "option": {"type": "string"}
                  }
                }
              }
            }
          }
        },
        "is_completed": {"type": "boolean"},
        "best_score": {"type": "integer"},
        "attempts_count": {"type": "integer"},
        "last_attempted_at": {"type": ["string", "null"]},
        "completed_at": {"type": ["string", "null"]}
      }
    }
  }
}`

const lessonDetailSchemaURL = "schema://lesson-detail.json"

var (
	compileOnce    sync.Once
	compiledDetail *jsonschema.Schema
	compileErr     error
)

func lessonSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler expects a parsed JSON value, not raw bytes.
		var def any
		if err := json.Unmarshal([]byte(lessonDetailSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(lessonDetailSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledDetail, compileErr = c.Compile(lessonDetailSchemaURL)
	})
	return compiledDetail, compileErr
}

// validateLessonDetail checks a raw lesson payload against the schema.
func validateLessonDetail(raw []byte) error {
	schema, err := lessonSchema()
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("lesson payload failed schema validation: %w", err)
	}
	return nil
}
