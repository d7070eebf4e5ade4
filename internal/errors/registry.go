package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (R001-R009)
	// ============================================

	"R001": {
		Category: CategoryRouting,
		Message:  "Route rendered outside a router",
		Detail:   "You should not use Route or WithRouter outside a Router. Every Route needs the routing context published by a Router, StaticRouter or MemoryRouter ancestor.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R001",
	},
	"R002": {
		Category: CategoryRouting,
		Message:  "Route expects a single child",
		Detail:   "A Route that renders its children as content accepts exactly one child element. Wrap several elements in a fragment or a container element.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R002",
	},
	"R003": {
		Category: CategoryRouting,
		Message:  "Invalid rendering strategy",
		Detail:   "The Route strategy has no component type or render function to call.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R003",
	},
	"R004": {
		Category: CategoryRouting,
		Message:  "Invalid component type",
		Detail:   "The component type is nil or has no render function.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R004",
	},

	// ============================================
	// History Errors (R005-R009)
	// ============================================

	"R005": {
		Category: CategoryHistory,
		Message:  "Static history cannot navigate",
		Detail:   "A static history records push and replace calls for the server response. It cannot go back, go forward or notify listeners.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R005",
	},
	"R006": {
		Category: CategoryHistory,
		Message:  "Invalid navigation target",
		Detail:   "The path passed to Navigate could not be parsed as a URL.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R006",
	},

	// ============================================
	// Pattern Errors (R010-R019)
	// ============================================

	"R010": {
		Category: CategoryPattern,
		Message:  "Invalid path pattern",
		Detail:   "The path pattern could not be compiled. Check parameter names, custom groups and escapes.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R010",
	},
	"R011": {
		Category: CategoryPattern,
		Message:  "Missing route parameter",
		Detail:   "A required route parameter was not provided when generating a path.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R011",
	},
	"R012": {
		Category: CategoryPattern,
		Message:  "Route parameter does not match its pattern",
		Detail:   "A parameter value does not satisfy the custom pattern declared for it.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R012",
	},
	"R013": {
		Category: CategoryPattern,
		Message:  "Invalid route parameter value",
		Detail:   "A matched parameter could not be converted to the type of the field it is bound to.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R013",
	},

	// ============================================
	// Configuration Errors (R020-R029)
	// ============================================

	"R020": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The vroute configuration file is malformed or holds invalid values.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R020",
	},
	"R021": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No vroute.yaml, vroute.yml or vroute.json was found.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R021",
	},
	"R022": {
		Category: CategoryConfig,
		Message:  "Invalid site route",
		Detail:   "A site route in the configuration has an invalid pattern or status, or both a body and a redirect.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R022",
	},

	// ============================================
	// CLI Errors (R030-R039)
	// ============================================

	"R030": {
		Category: CategoryCLI,
		Message:  "Render failed",
		Detail:   "The route tree could not be rendered for the requested location.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R030",
	},
	"R031": {
		Category: CategoryCLI,
		Message:  "Export failed",
		Detail:   "A rendered page could not be written to the export destination.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R031",
	},
	"R032": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The render server stopped with an error.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R032",
	},
	"R033": {
		Category: CategoryCLI,
		Message:  "Unknown starter template",
		Detail:   "The requested starter template does not exist.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R033",
	},
	"R034": {
		Category: CategoryCLI,
		Message:  "Configuration already exists",
		Detail:   "The directory already holds a vroute configuration file.",
		DocURL:   "https://vango.dev/docs/vroute/errors/R034",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
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
