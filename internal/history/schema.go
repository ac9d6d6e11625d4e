package history

import "github.com/santhosh-tekuri/jsonschema/v5"

// storedSchema constrains the on-disk document before it is decoded. A file
// that fails validation is surfaced as corrupt rather than silently repaired.
var storedSchema = jsonschema.MustCompileString("history.schema.json", `{
	"type": "object",
	"required": ["updated_at", "monthly_breakdown", "ltv"],
	"properties": {
		"updated_at": {"type": "string"},
		"monthly_breakdown": {
			"type": "array",
			"items": {
				"type": "object",
				"required": [
					"month",
					"total_customers",
					"new_customers",
					"returning_customers",
					"new_percentage",
					"returning_percentage",
					"total_revenue",
					"new_customer_revenue",
					"returning_customer_revenue"
				],
				"properties": {
					"month": {"type": "string", "pattern": "^\\d{4}-\\d{2}$"},
					"total_customers": {"type": "integer", "minimum": 0},
					"new_customers": {"type": "integer", "minimum": 0},
					"returning_customers": {"type": "integer", "minimum": 0},
					"new_percentage": {"type": "number"},
					"returning_percentage": {"type": "number"},
					"total_revenue": {"type": "number"},
					"new_customer_revenue": {"type": "number"},
					"returning_customer_revenue": {"type": "number"}
				}
			}
		},
		"ltv": {
			"type": "object",
			"required": [
				"Basic LTV",
				"Advanced LTV",
				"Average Purchase Value",
				"Average Purchase Frequency",
				"Average Customer LifeSpan (Months)"
			],
			"properties": {
				"Basic LTV": {"type": "number"},
				"Advanced LTV": {"type": "number"},
				"Average Purchase Value": {"type": "number"},
				"Average Purchase Frequency": {"type": "number"},
				"Average Customer LifeSpan (Months)": {"type": "number"}
			}
		}
	}
}`)
