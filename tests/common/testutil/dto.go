//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"
)

// Mutation edits the JSON form of a request DTO before it is sent.
type Mutation func(m map[string]any)

// DtoMap round-trips v through JSON so tests can break individual fields.
func DtoMap(t *testing.T, v any, muts ...Mutation) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %T: %v", v, err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal %T: %v", v, err)
	}
	for _, mut := range muts {
		mut(m)
	}
	return m
}

// Field sets key to value, or removes key when value is nil.
func Field(key string, value any) Mutation {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}
