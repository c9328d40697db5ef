package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RenderJSModule serializes data as the v4Data JavaScript module spec.md
// §6 describes: a single CommonJS file assigning the constant and
// exporting it, suitable for the existing dashboard frontend to require()
// directly.
func RenderJSModule(data V4Data) ([]byte, error) {
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal v4Data: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("// Generated artifact. Do not edit by hand.\n")
	buf.WriteString("const v4Data = ")
	buf.Write(body)
	buf.WriteString(";\n\nmodule.exports = v4Data;\n")
	return buf.Bytes(), nil
}
