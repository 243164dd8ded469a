package main

import "testing"

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty key", "", "not set"},
		{"short key", "abc123", "****"},
		{"exactly eight", "12345678", "****"},
		{"long key", "sk-1234567890abcdef", "sk-12345..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskKey(tt.key); got != tt.want {
				t.Errorf("maskKey(%q): expected '%s', got '%s'", tt.key, tt.want, got)
			}
		})
	}
}
