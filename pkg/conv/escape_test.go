package conv

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "Apollo Hospital", expected: "Apollo Hospital\n"},
		{name: "stars stay literal", input: "St. *John* Clinic", expected: "St. *John* Clinic\n"},
		{name: "underscores stay literal", input: "a_b_c", expected: "a_b_c\n"},
		{name: "angle brackets are not tags", input: "<b>x</b>", expected: "&lt;b&gt;x&lt;/b&gt;\n"},
		{name: "hash is not a header", input: "# 12 Main Road", expected: "# 12 Main Road\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToTelegramHTML([]byte(EscapeMarkdown(tt.input)))
			if got != tt.expected {
				t.Errorf("escaped %q rendered %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
