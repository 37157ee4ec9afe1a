package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"jessica-sub/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema describes a request body. It is rendered to a JSON Schema
// document and checked with gojsonschema.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
}

// Property describes one field. Type "any" (or empty) accepts every JSON
// value; Nullable also accepts null.
type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Nullable    bool                `json:"nullable,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DecodeObject parses a request body into a generic JSON object.
func DecodeObject(raw []byte) (map[string]interface{}, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("request body is empty")
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("request body must be a JSON object: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("request body must be a JSON object")
	}
	return obj, nil
}

// Bind decodes a JSON request body into dst after checking it against
// schema. Malformed bodies yield INVALID_REQUEST, schema violations
// VALIDATION_FAILED.
func Bind(raw []byte, schema JSONSchema, dst interface{}) error {
	obj, err := DecodeObject(raw)
	if err != nil {
		return errors.NewInvalidRequestError(err.Error())
	}
	result, err := Validate(obj, schema)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !result.Valid {
		return errors.NewValidationFailedError(result.Summary())
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.NewInvalidRequestError(err.Error())
	}
	return nil
}

// Validate checks input against schema and collects every violation. The
// error is only set when the schema itself cannot be loaded.
func Validate(input map[string]interface{}, schema JSONSchema) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewGoLoader(schema.Document())
	documentLoader := gojsonschema.NewGoLoader(input)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, toValidationError(desc))
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}, nil
}

// Document renders the schema as a JSON Schema object.
func (s JSONSchema) Document() map[string]interface{} {
	doc := objectDocument(s.Properties, s.Required)
	doc["additionalProperties"] = s.AdditionalProperties
	return doc
}

func objectDocument(props map[string]Property, required []string) map[string]interface{} {
	properties := make(map[string]interface{}, len(props))
	for name, prop := range props {
		properties[name] = prop.document()
	}
	doc := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func (p Property) document() map[string]interface{} {
	var doc map[string]interface{}
	if p.Type == "object" && p.Properties != nil {
		doc = objectDocument(p.Properties, p.Required)
	} else {
		doc = map[string]interface{}{}
	}

	switch {
	case p.Type == "" || p.Type == "any":
	case p.Nullable && p.Type != "null":
		doc["type"] = []string{p.Type, "null"}
	default:
		doc["type"] = p.Type
	}

	if p.Description != "" {
		doc["description"] = p.Description
	}
	if p.Minimum != nil {
		doc["minimum"] = *p.Minimum
	}
	if p.Maximum != nil {
		doc["maximum"] = *p.Maximum
	}
	if len(p.Enum) > 0 {
		enum := make([]interface{}, 0, len(p.Enum)+1)
		for _, v := range p.Enum {
			enum = append(enum, v)
		}
		if p.Nullable {
			enum = append(enum, nil)
		}
		doc["enum"] = enum
	}
	if p.Pattern != nil {
		doc["pattern"] = *p.Pattern
	}
	if p.MinLength != nil {
		doc["minLength"] = *p.MinLength
	}
	if p.MaxLength != nil {
		doc["maxLength"] = *p.MaxLength
	}
	if p.Items != nil {
		doc["items"] = p.Items.document()
	}
	return doc
}

// rootContext is how gojsonschema names the top-level object.
const rootContext = "(root)"

var errorCodes = map[string]string{
	"required":                        "REQUIRED_FIELD_MISSING",
	"additional_property_not_allowed": "EXTRA_FIELD",
	"invalid_type":                    "INVALID_TYPE",
	"string_gte":                      "MIN_LENGTH_VIOLATION",
	"string_lte":                      "MAX_LENGTH_VIOLATION",
	"number_gte":                      "MINIMUM_VIOLATION",
	"number_lte":                      "MAXIMUM_VIOLATION",
	"enum":                            "INVALID_ENUM_VALUE",
	"pattern":                         "PATTERN_MISMATCH",
}

func toValidationError(desc gojsonschema.ResultError) ValidationError {
	field := desc.Field()
	if field == rootContext {
		field = ""
	}

	message := desc.Description()
	switch desc.Type() {
	case "required", "additional_property_not_allowed":
		if prop, ok := desc.Details()["property"].(string); ok && prop != "" {
			field = joinField(field, prop)
		}
		if desc.Type() == "required" {
			message = "required field missing"
		} else {
			message = "field not allowed in schema"
		}
	}

	code, ok := errorCodes[desc.Type()]
	if !ok {
		code = strings.ToUpper(desc.Type())
	}

	return ValidationError{
		Field:   field,
		Message: message,
		Code:    code,
	}
}

func joinField(parent, prop string) string {
	switch {
	case parent == "":
		return prop
	case parent == prop || strings.HasSuffix(parent, "."+prop):
		return parent
	}
	return parent + "." + prop
}

// GetErrorMessages returns "field: message" for every error.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// Summary joins the error messages into one line.
func (vr *ValidationResult) Summary() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for field and anything nested under it.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// IntPtr and FloatPtr help build schema literals.
func IntPtr(i int) *int {
	return &i
}

func FloatPtr(f float64) *float64 {
	return &f
}
