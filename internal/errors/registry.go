package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

var registry = map[string]ErrorTemplate{
	// Configuration (E120-E149)

	"E120": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Detail:     "No syringe.json was found in the given directory or its parents.",
		Suggestion: "Run the command from the project directory or pass --config.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "syringe.json could not be parsed as JSON.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field holds a value outside its allowed range.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration could not be written",
		Detail:   "Writing syringe.json failed.",
	},

	// Fixtures (E200-E219)

	"E200": {
		Category:   CategoryFixture,
		Message:    "Fixture not found",
		Detail:     "The fixture document does not exist at the given location.",
		Suggestion: "Check the path, or use s3://bucket/key for remote fixtures.",
	},
	"E201": {
		Category: CategoryFixture,
		Message:  "Invalid fixture document",
		Detail:   "The fixture could not be decoded as YAML or JSON.",
	},
	"E202": {
		Category:   CategoryFixture,
		Message:    "Unknown component",
		Detail:     "A node references a component that the document does not define.",
		Suggestion: "Declare the component under components: before using it.",
	},
	"E203": {
		Category:   CategoryFixture,
		Message:    "Invalid node",
		Detail:     "A node must set exactly one of tag, component, text, comment or raw.",
		Suggestion: "Set tag: div for elements or component: name for components.",
	},
	"E204": {
		Category: CategoryFixture,
		Message:  "Invalid handler reference",
		Detail:   "Listener values must be handler references of the form @name.",
	},
	"E205": {
		Category: CategoryFixture,
		Message:  "Fixture source unavailable",
		Detail:   "The fixture source could not be read.",
	},

	// Playground (E300-E319)

	"E300": {
		Category: CategoryPlayground,
		Message:  "Invalid inject request",
		Detail:   "The request body is not a valid fixture document.",
	},
	"E301": {
		Category: CategoryPlayground,
		Message:  "Live connection failed",
		Detail:   "The WebSocket upgrade or message exchange failed.",
	},
	"E302": {
		Category: CategoryPlayground,
		Message:  "Render failed",
		Detail:   "The injected children could not be rendered to HTML.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
