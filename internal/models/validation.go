package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const placeSchemaJSON = `{
	"type": "object",
	"properties": {
		"name":        {"type": "string", "minLength": 3, "maxLength": 100},
		"description": {"type": "string", "minLength": 1, "maxLength": 300},
		"latitude":    {"type": "number", "minimum": -90, "maximum": 90},
		"longitude":   {"type": "number", "minimum": -180, "maximum": 180}
	},
	"required": ["name", "description", "latitude", "longitude"]
}`

// one message per field, whatever keyword failed
var placeFieldMessages = map[string]string{
	"name":        "The field Name must be a string with a minimum length of 3 and a maximum length of 100.",
	"description": "The field Description must be a string with a minimum length of 1 and a maximum length of 300.",
	"latitude":    "The field Latitude must be between -90 and 90.",
	"longitude":   "The field Longitude must be between -180 and 180.",
}

var placeSchema = mustCompileSchema(placeSchemaJSON)

func mustCompileSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid place schema: %v", err))
	}
	return schema
}

// ValidationErrors maps a payload field to the messages describing what is wrong with it
type ValidationErrors map[string][]string

// Add records a message for field, skipping duplicates
func (v ValidationErrors) Add(field, message string) {
	for _, m := range v[field] {
		if m == message {
			return
		}
	}
	v[field] = append(v[field], message)
}

// Fields returns the failing field names in sorted order
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range v.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(v[f], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the input against the place constraints. It returns
// nil or a ValidationErrors with one message per violated field.
func (in PlaceInput) Validate() error {
	result, err := placeSchema.Validate(gojsonschema.NewGoLoader(in))
	if err != nil {
		// NaN and infinities cannot be encoded as JSON numbers
		errs := ValidationErrors{}
		errs.Add("(root)", "The request body is not a valid place.")
		return errs
	}
	if result.Valid() {
		return nil
	}

	errs := ValidationErrors{}
	for _, re := range result.Errors() {
		field := re.Field()
		if re.Type() == "required" {
			if p, ok := re.Details()["property"].(string); ok {
				field = p
			}
		}
		msg, ok := placeFieldMessages[field]
		if !ok {
			msg = re.Description()
		}
		errs.Add(field, msg)
	}
	return errs
}
