package filters

// Params holds decode parameters from a stream's /DecodeParms dictionary,
// flattened to plain Go values by the caller.
type Params map[string]any

// Int returns the integer parameter for key, or def when absent or not a
// number.
func (p Params) Int(key string, def int) int {
	if p == nil {
		return def
	}
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the boolean parameter for key, or def when absent.
func (p Params) Bool(key string, def bool) bool {
	if p == nil {
		return def
	}
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}
