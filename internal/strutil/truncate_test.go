package strutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{
			name:   "shorter than limit stays verbatim",
			s:      "hello",
			maxLen: 10,
			want:   "hello",
		},
		{
			name:   "exact length stays verbatim without marker",
			s:      "hello",
			maxLen: 5,
			want:   "hello",
		},
		{
			name:   "longer than limit gets marker",
			s:      "hello world",
			maxLen: 5,
			want:   "hello" + Ellipsis,
		},
		{
			name:   "multi-byte runes truncate on rune boundary",
			s:      "你好世界",
			maxLen: 2,
			want:   "你好" + Ellipsis,
		},
		{
			name:   "empty input",
			s:      "",
			maxLen: 5,
			want:   "",
		},
		{
			name:   "non-positive limit",
			s:      "hello",
			maxLen: 0,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.s, tt.maxLen); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}
