package generation

import "strings"

// Schema is a JSON Schema document describing the object a model must
// return. Providers translate it to their own structured-output dialect.
type Schema map[string]any

func Object(properties map[string]Schema, required ...string) Schema {
	props := make(map[string]any, len(properties))
	for k, v := range properties {
		props[k] = map[string]any(v)
	}
	s := Schema{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func Array(items Schema) Schema {
	return Schema{"type": "array", "items": map[string]any(items)}
}

func String(description string) Schema {
	return withDescription(Schema{"type": "string"}, description)
}

func Number(description string) Schema {
	return withDescription(Schema{"type": "number"}, description)
}

func Integer(description string) Schema {
	return withDescription(Schema{"type": "integer"}, description)
}

// Nullable marks a scalar as optional: the model may answer null.
func Nullable(s Schema) Schema {
	out := Schema{}
	for k, v := range s {
		out[k] = v
	}
	if t, ok := s["type"].(string); ok {
		out["type"] = []any{t, "null"}
	}
	return out
}

func withDescription(s Schema, description string) Schema {
	if description != "" {
		s["description"] = description
	}
	return s
}

// toGemini rewrites a JSON Schema into the OpenAPI subset accepted by
// Gemini's responseSchema: upper-case types, "nullable" instead of a type
// union, and no additionalProperties.
func toGemini(node any) any {
	switch v := node.(type) {
	case Schema:
		return toGemini(map[string]any(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			switch key {
			case "additionalProperties", "$schema":
				continue
			case "type":
				typ, nullable := geminiType(val)
				out["type"] = typ
				if nullable {
					out["nullable"] = true
				}
			case "properties":
				props := map[string]any{}
				if m, ok := val.(map[string]any); ok {
					for name, p := range m {
						props[name] = toGemini(p)
					}
				}
				out["properties"] = props
			case "items":
				out["items"] = toGemini(val)
			default:
				out[key] = val
			}
		}
		return out
	default:
		return node
	}
}

func geminiType(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.ToUpper(t), false
	case []any:
		typ, nullable := "", false
		for _, item := range t {
			s, _ := item.(string)
			if s == "null" {
				nullable = true
				continue
			}
			typ = strings.ToUpper(s)
		}
		return typ, nullable
	case []string:
		items := make([]any, 0, len(t))
		for _, s := range t {
			items = append(items, s)
		}
		return geminiType(items)
	default:
		return "STRING", false
	}
}
