package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStrong(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"valid minimal", "Abcdef1!", true},
		{"valid with all specials", "aA1@$!%*?&", true},
		{"too short", "Abc1!aa", false},
		{"exactly seven chars", "Abcde1!", false},
		{"missing lowercase", "ABCDEF1!", false},
		{"missing uppercase", "abcdef1!", false},
		{"missing digit", "Abcdefg!", false},
		{"missing special", "Abcdefg1", false},
		{"disallowed special", "Abcdef1#", false},
		{"space not allowed", "Abcde f1!", false},
		{"unicode letter rejected", "Abcdef1!é", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrong(tt.candidate))
		})
	}
}
