package activity

import "jessica-sub/internal/common/validation"

func GetLogSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"user_id", "action"},
		Properties: map[string]validation.Property{
			"user_id": {
				Type:        "string",
				Description: "User the entry belongs to",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(128),
			},
			"project_id": {
				Type:        "string",
				Description: "Optional project the action happened in",
				Nullable:    true,
				MaxLength:   validation.IntPtr(128),
			},
			"action": {
				Type:        "string",
				Description: "Short action name, e.g. vendor_added",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(100),
			},
			"payload": {
				Type:        "any",
				Description: "Opaque JSON payload",
				Nullable:    true,
			},
		},
		AdditionalProperties: false,
	}
}
