package params

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseToolInputs parses the JSON tool-inputs file: a single object whose
// keys are tool parameter names (not aliases) and whose values are the
// scalar values used to run the tool once before publishing. Only the
// required parameters of the tool need to be present.
//
// Values may be strings, numbers, or booleans; everything is carried as a
// string since the packaging endpoint takes parameter values as text.
func ParseToolInputs(content []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("tool inputs must be a JSON object of parameter name to value: %w", err)
	}

	result := make(map[string]string, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case string:
			result[name] = v
		case json.Number:
			result[name] = v.String()
		case bool:
			result[name] = fmt.Sprintf("%t", v)
		case nil:
			result[name] = ""
		default:
			return nil, fmt.Errorf("tool input %q has unsupported value type %T (use a string, number, or boolean)", name, value)
		}
	}

	return result, nil
}
