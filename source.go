package typeval

import (
	"context"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DecodeJSON unmarshals a JSON document and decodes it against the type.
// A document that is not valid JSON is reported as a decoding error at the
// root, not as a separate error kind.
func DecodeJSON(ctx context.Context, t Type, data []byte, opts DecodingOptions) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, DecodingErrors{{Expected: "valid JSON", Got: err.Error()}}
	}
	return Decode(ctx, t, raw, opts)
}

// DecodeYAML unmarshals a YAML document and decodes it against the type.
// YAML integers arrive as int and are normalized by the number decoder.
func DecodeYAML(ctx context.Context, t Type, data []byte, opts DecodingOptions) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, DecodingErrors{{Expected: "valid YAML", Got: err.Error()}}
	}
	return Decode(ctx, t, normalizeYAML(raw), opts)
}

// EncodeJSON encodes a typed value and marshals the wire value to JSON.
func EncodeJSON(t Type, v any) ([]byte, error) {
	return json.Marshal(Encode(t, v))
}

// normalizeYAML rewrites the map[any]any trees yaml.v3 can produce for
// non-string keys into the map[string]any form the decoder traverses.
func normalizeYAML(v any) any {
	switch m := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = normalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, item := range m {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(m))
		for i, item := range m {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}
