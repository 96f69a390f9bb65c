//go:build unit || e2e

package testutil

// Field mutates one key of a DtoMap; a nil value removes the key entirely,
// which is how "field absent" cases are expressed.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
		} else {
			m[key] = value
		}
	}
}
