package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMailbox(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"a@b.com", true},
		{"first.last+tag@sub.example.vn", true},
		{"a@b.c.d", true},
		{"", false},
		{"plain", false},
		{"a@b", false},
		{"a b@c.com", false},
		{"a@@b.com", false},
		{"@b.com", false},
		{"a@b.com ", false},
		{"a\u00a0b@c.com", false},
		{"a\vb@c.com", false},
		{"a@c.c\u2003om", false},
		{"a@c\u2028.com", false},
		{"\ufeffa@c.com", false},
		{"a@c.com\u3000", false},
		{"nguyễn@ví-dụ.vn", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMailbox(tt.input))
		})
	}
}

func TestIsVNPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0912345678", true},
		{"+84912345678", true},
		{"84912345678", true},
		{"091 234 5678", true},
		{" 0912\t345678 ", true},
		{"0012345678", false},
		{"091234567", false},
		{"09123456789", false},
		{"+1912345678", false},
		{"09123a5678", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVNPhone(tt.input))
		})
	}
}

func TestValidatorTags(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("r@c.com", "mailbox"))
	assert.Error(t, v.Var("r@c", "mailbox"))

	assert.NoError(t, v.Var("0912 345 678", "vn_phone"))
	assert.Error(t, v.Var("12345", "vn_phone"))

	assert.NoError(t, v.Var("Al", "min_trimmed=2"))
	assert.NoError(t, v.Var("Đô", "min_trimmed=2"))
	assert.Error(t, v.Var(" A ", "min_trimmed=2"))
	assert.Error(t, v.Var("Ā", "min_trimmed=2"))
	// Counted in runes, one emoji is a single character
	assert.Error(t, v.Var("\U0001F600", "min_trimmed=2"))
	assert.NoError(t, v.Var("\U0001F600\U0001F600", "min_trimmed=2"))
	// Unparseable params reject instead of comparing against zero
	assert.Error(t, v.Var("Al", "min_trimmed=two"))
}
