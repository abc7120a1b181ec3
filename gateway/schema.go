package gateway

import "github.com/veriscribe/veriscribe/internal/util"

// SchemaFor derives the JSON schema of a Go struct for use with
// StructuredAnalyze. Field names follow json tags; `description` tags become
// schema descriptions; pointer and omitempty fields are optional.
func SchemaFor(v any) map[string]any {
	return util.CreateSchema(v)
}
