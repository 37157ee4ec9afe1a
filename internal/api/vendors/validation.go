package vendors

import "jessica-sub/internal/common/validation"

func optionalText(description string, max int) validation.Property {
	return validation.Property{
		Type:        "string",
		Description: description,
		Nullable:    true,
		MaxLength:   validation.IntPtr(max),
	}
}

func userIDProperty() validation.Property {
	return validation.Property{
		Type:        "string",
		Description: "Owner of the vendor list",
		MinLength:   validation.IntPtr(1),
		MaxLength:   validation.IntPtr(128),
	}
}

func GetAddSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"user_id", "name"},
		Properties: map[string]validation.Property{
			"user_id": userIDProperty(),
			"name": {
				Type:        "string",
				Description: "Vendor display name",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(200),
			},
			"phone":   optionalText("Vendor phone number, E.164 preferred", 32),
			"trade":   optionalText("Trade, e.g. plumber", 100),
			"city":    optionalText("City", 100),
			"state":   optionalText("State or province", 100),
			"country": optionalText("Country", 100),
		},
		AdditionalProperties: false,
	}
}

func GetRemoveSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"user_id"},
		Properties: map[string]validation.Property{
			"user_id": userIDProperty(),
			"id": {
				Type:        "integer",
				Description: "Vendor id; takes precedence over name",
				Nullable:    true,
				Minimum:     validation.FloatPtr(1),
			},
			"name": optionalText("Vendor name, matched case-insensitively", 200),
		},
		AdditionalProperties: false,
	}
}
