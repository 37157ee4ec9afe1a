package calls

import "jessica-sub/internal/common/validation"

func GetTestCallSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"customer_number": {
				Type:        "string",
				Description: "Number to dial in LIVE mode; TEST mode always dials the safe number",
				Nullable:    true,
				MaxLength:   validation.IntPtr(32),
			},
			"first_message": {
				Type:        "string",
				Description: "Opening line spoken by the assistant",
				Nullable:    true,
				MaxLength:   validation.IntPtr(1000),
			},
			"context": {
				Type:        "object",
				Description: "Extra assistant context",
				Nullable:    true,
			},
		},
		AdditionalProperties: false,
	}
}
