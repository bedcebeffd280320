package entitymarshal

// exportValue deep-copies a property value for Export, reducing nested
// entities to plain maps.
func exportValue(v any) any {
	switch t := v.(type) {
	case *Entity:
		return t.Export()
	case []any:
		out := make([]any, len(t))
		for i, ev := range t {
			out[i] = exportValue(ev)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, ev := range t {
			out[k] = exportValue(ev)
		}
		return out
	}
	return v
}

// cloneValue deep-copies a property value for Clone, preserving nested
// entities as independent clones.
func cloneValue(v any) any {
	switch t := v.(type) {
	case *Entity:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, ev := range t {
			out[i] = cloneValue(ev)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, ev := range t {
			out[k] = cloneValue(ev)
		}
		return out
	}
	return v
}
