package journal

import (
	"testing"
)

func TestCanonicalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name:  "sorted keys",
			input: map[string]any{"z": 1, "a": 2, "m": 3},
			want:  `{"a":2,"m":3,"z":1}`,
		},
		{
			name:  "nested objects",
			input: map[string]any{"b": map[string]any{"d": 1, "c": 2}, "a": 3},
			want:  `{"a":3,"b":{"c":2,"d":1}}`,
		},
		{
			name:  "array order preserved",
			input: []any{3, 1, 2},
			want:  `[3,1,2]`,
		},
		{
			name:  "mixed types",
			input: map[string]any{"str": "hello", "num": 42, "bool": true, "null": nil},
			want:  `{"bool":true,"null":null,"num":42,"str":"hello"}`,
		},
		{
			name:  "empty containers",
			input: map[string]any{"o": map[string]any{}, "a": []any{}},
			want:  `{"a":[],"o":{}}`,
		},
		{
			name:  "no html escaping",
			input: map[string]any{"msg": "<a&b>"},
			want:  `{"msg":"<a&b>"}`,
		},
		{
			name:  "64-bit integers stay exact",
			input: struct{ State uint64 }{State: 18446744073709551557},
			want:  `{"State":18446744073709551557}`,
		},
		{
			name: "struct fields sorted",
			input: struct {
				Turn  int    `json:"turn"`
				Actor string `json:"actor"`
			}{Turn: 3, Actor: "ember#0"},
			want: `{"actor":"ember#0","turn":3}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalJSON(tt.input)
			if err != nil {
				t.Fatalf("canonical json: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("CanonicalJSON = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCanonicalJSONError(t *testing.T) {
	if _, err := CanonicalJSON(map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestContentHash(t *testing.T) {
	a, err := ContentHash(map[string]any{"x": 1, "y": 2})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := ContentHash(map[string]any{"y": 2, "x": 1})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a != b {
		t.Fatalf("hash depends on key order: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Fatalf("hash length = %d, want 32", len(a))
	}
	c, err := ContentHash(map[string]any{"x": 1, "y": 3})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == c {
		t.Fatal("different content produced the same hash")
	}
}
