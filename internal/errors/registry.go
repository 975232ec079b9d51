package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "The view could not be applied to the document. The previous view stays mounted.",
	},
	"E002": {
		Category:   CategoryRender,
		Message:    "Document operation failed",
		Detail:     "The document rejected an operation, for example an invalid tag name or an insert that would create a cycle.",
		Suggestion: "Check tag and attribute names produced by the view",
	},
	"E003": {
		Category: CategoryRender,
		Message:  "Invalid patch path",
		Detail:   "A patch addressed a node that does not exist in the live tree. The document was changed outside the driver.",
	},
	"E004": {
		Category: CategoryRender,
		Message:  "Dangling element reference",
		Detail:   "An element reference points at a node that is no longer mounted.",
	},
	"E005": {
		Category:   CategoryRender,
		Message:    "Not mounted",
		Detail:     "The app or driver was used before Start or Mount succeeded.",
		Suggestion: "Call Start before Send or Flush",
	},
	"E006": {
		Category: CategoryRender,
		Message:  "App stopped",
		Detail:   "The app was stopped and no longer processes messages.",
	},

	// ============================================
	// Protocol Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryProtocol,
		Message:  "Invalid frame",
		Detail:   "A WebSocket message could not be decoded as a frame.",
	},
	"E061": {
		Category: CategoryProtocol,
		Message:  "Invalid event",
		Detail:   "An event frame payload could not be decoded.",
	},
	"E062": {
		Category: CategoryProtocol,
		Message:  "Unknown node",
		Detail:   "An event named a node the session does not know. It was probably released by a later render.",
	},
	"E063": {
		Category:   CategoryProtocol,
		Message:    "Unknown mutation",
		Detail:     "A mutations frame contained an operation the client does not understand.",
		Suggestion: "Make sure the page loads the client served by the same server version",
	},

	// ============================================
	// Server Errors (E080-E099)
	// ============================================

	"E080": {
		Category:   CategoryServer,
		Message:    "Server failed to start",
		Detail:     "The HTTP server could not listen on the configured address.",
		Suggestion: "Pick another port with --port or set SPROUT_PORT",
	},
	"E081": {
		Category: CategoryServer,
		Message:  "Too many sessions",
		Detail:   "The server reached its session limit and refused the connection.",
	},
	"E082": {
		Category: CategoryServer,
		Message:  "Shutdown timed out",
		Detail:   "Sessions did not close within the shutdown timeout.",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Detail:     "The configuration file could not be read or parsed.",
		Suggestion: "Check that the file is valid JSON or YAML",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json, .yaml or .yml.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "Port must be between 0 and 65535.",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid duration",
		Detail:   "Timeouts are Go durations such as \"30s\" or \"1m\".",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Invalid limit",
		Detail:   "Session limits and sizes cannot be negative.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E141": {
		Category:   CategoryCLI,
		Message:    "Configuration not found",
		Detail:     "No sprout.json or sprout.yaml was found.",
		Suggestion: "Run without --config to use the defaults",
	},
	"E142": {
		Category:   CategoryCLI,
		Message:    "Unknown demo",
		Detail:     "The requested demo app does not exist.",
		Suggestion: "Use one of: counter, todo, showcase",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "A command argument could not be parsed.",
	},

	// ============================================
	// Export Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryExport,
		Message:  "Export failed",
		Detail:   "A page could not be rendered or written to the export store.",
	},
	"E161": {
		Category: CategoryExport,
		Message:  "Invalid object name",
		Detail:   "Object names are relative slash-separated paths that stay inside the store.",
	},
	"E162": {
		Category:   CategoryExport,
		Message:    "Missing S3 settings",
		Detail:     "Exporting to S3 needs a bucket and a region.",
		Suggestion: "Set export.s3.bucket and export.s3.region, or pass --bucket and --region",
	},
}

// GetAllCodes returns all registered error codes, sorted.
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
