package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "multiple spaces",
			input: "hello    world",
			want:  "hello world",
		},
		{
			name:  "tabs and newlines",
			input: "hello\t\nworld",
			want:  "hello world",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Standup", "Standup"},
		{"surrounding whitespace", "\t Standup \n", "Standup"},
		{"control characters", "Stand\x00up\x07", "Standup"},
		{"inner newline collapsed", "Team\nStandup", "Team Standup"},
		{"whitespace only", " \t\r\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeTitle(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizeTitle(got); again != got {
				t.Errorf("SanitizeTitle is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSanitizeNote(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "daily sync", "daily sync"},
		{"keeps line breaks", "agenda:\r\n- status\n- blockers", "agenda:\n- status\n- blockers"},
		{"drops control characters", "daily\x1b sync", "daily sync"},
		{"whitespace only", "\n\n  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeNote(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeNote(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizeNote(got); again != got {
				t.Errorf("SanitizeNote is not idempotent: %q -> %q", got, again)
			}
		})
	}
}
