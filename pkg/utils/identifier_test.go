package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		kind IdentifierKind
		want string
	}{
		{"  Student@Example.COM ", IdentifierEmail, "student@example.com"},
		{"+91 98765-43210", IdentifierPhone, "919876543210"},
		{"(022) 1234 567", IdentifierPhone, "0221234567"},
		{"12345", IdentifierInvalid, "12345"},
		{"1234567890123456", IdentifierInvalid, "1234567890123456"},
		{"StudentName", IdentifierOther, "studentname"},
		{"   ", IdentifierInvalid, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			kind, got := NormalizeIdentifier(tt.in)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceholderEmail(t *testing.T) {
	assert.Equal(t, "919876543210@placeholder.local", PlaceholderEmail("919876543210"))
}

func TestReceipt(t *testing.T) {
	r := Receipt("vedic_pass", 12)
	assert.Regexp(t, `^vedic_pass_12_\d+$`, r)
}
