package model

import "testing"

func TestParseExportMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportMode
		wantErr bool
	}{
		{"chat", ModePerChat, false},
		{"per_chat", ModePerChat, false},
		{"month", ModePerMonth, false},
		{"per_month", ModePerMonth, false},
		{"YEAR", ModePerYear, false},
		{"per_year", ModePerYear, false},
		{"", ModePerChat, false},
		{"weekly", ModePerChat, true},
	}

	for _, tt := range tests {
		got, err := ParseExportMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseExportMode(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseExportMode(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExportMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSourceKindStrings(t *testing.T) {
	tests := []struct {
		kind   SourceKind
		str    string
		label  string
		prefix string
	}{
		{SourceAI, "ai", "AI Chat", "ai_chat"},
		{SourceChatGPT, "chatgpt", "ChatGPT", "chatgpt"},
		{SourceGemini, "gemini", "Gemini", "gemini"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		if got := tt.kind.Label(); got != tt.label {
			t.Errorf("Label() = %q, want %q", got, tt.label)
		}
		if got := tt.kind.FilePrefix(); got != tt.prefix {
			t.Errorf("FilePrefix() = %q, want %q", got, tt.prefix)
		}
	}
}

func TestRoleLabel(t *testing.T) {
	if got := RoleUser.Label(); got != "User" {
		t.Errorf("user label = %q", got)
	}
	if got := RoleAssistant.Label(); got != "Assistant" {
		t.Errorf("assistant label = %q", got)
	}
	// Anything that is not the user role renders as the assistant.
	if got := Role("tool").Label(); got != "Assistant" {
		t.Errorf("unknown role label = %q", got)
	}
}
