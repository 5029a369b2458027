package normalize

// Payload is the decoded inbound key-value document. Values are whatever the
// JSON decoder produced; the sanitize layer owns all type coercion.
type Payload map[string]any

// field resolves the first present key among the given aliases. The boolean
// distinguishes an absent field from one that is present but empty; only the
// sanitizers decide what a present value is worth.
func (p Payload) field(aliases ...string) (any, bool) {
	for _, key := range aliases {
		if v, ok := p[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// object resolves an alias to a nested object, or nil when the field is
// absent or not an object.
func (p Payload) object(aliases ...string) Payload {
	v, ok := p.field(aliases...)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return Payload(m)
}
