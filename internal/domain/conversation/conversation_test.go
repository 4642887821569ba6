package conversation

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"short message kept verbatim", "How much rice for 100 guests?", "How much rice for 100 guests?"},
		{"exactly fifty runes kept verbatim", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"fifty one runes truncated", strings.Repeat("a", 51), strings.Repeat("a", 50) + "..."},
		{"long message truncated", strings.Repeat("waste ", 20), strings.Repeat("waste ", 20)[:50] + "..."},
		{"multibyte runes counted as runes", strings.Repeat("日", 51), strings.Repeat("日", 50) + "..."},
		{"empty message", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.message); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestNewConversation(t *testing.T) {
	conv := NewConversation("conv_abc123", "user-1")
	if conv.Title != DefaultTitle {
		t.Errorf("title = %q, want %q", conv.Title, DefaultTitle)
	}
	if conv.PublicID != "conv_abc123" || conv.UserID != "user-1" {
		t.Errorf("unexpected identity fields: %+v", conv)
	}
	if conv.CreatedAt.IsZero() || conv.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"user", "assistant"} {
		role, err := ParseRole(raw)
		if err != nil {
			t.Errorf("ParseRole(%q) returned error: %v", raw, err)
		}
		if string(role) != raw {
			t.Errorf("ParseRole(%q) = %q", raw, role)
		}
	}

	for _, raw := range []string{"system", "tool", "", "User"} {
		if _, err := ParseRole(raw); err == nil {
			t.Errorf("ParseRole(%q) should fail", raw)
		}
	}
}
