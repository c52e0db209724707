package textutil

import (
	"reflect"
	"testing"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes tags and collapses whitespace",
			input:    "<p>휴학은  학과 사무실에서</p><br/>신청합니다",
			expected: "휴학은 학과 사무실에서 신청합니다",
		},
		{
			name:     "unescapes entities",
			input:    "A &amp; B",
			expected: "A & B",
		},
		{
			name:     "plain text unchanged",
			input:    "no markup here",
			expected: "no markup here",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.input); got != tt.expected {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStripURLs(t *testing.T) {
	got := StripURLs("자세한 내용: https://example.ac.kr/notice/1 참고")
	if got != "자세한 내용:  참고" {
		t.Errorf("StripURLs() = %q", got)
	}
}

func TestSplitSentences(t *testing.T) {
	t.Run("splits on sentence punctuation followed by whitespace", func(t *testing.T) {
		got := SplitSentences("First sentence. Second one! Third? Last without end")
		expected := []string{"First sentence.", "Second one!", "Third?", "Last without end"}
		if !reflect.DeepEqual(got, expected) {
			t.Errorf("SplitSentences() = %v, want %v", got, expected)
		}
	})

	t.Run("does not split inside numbers", func(t *testing.T) {
		got := SplitSentences("버전 1.5를 사용하세요. 이상입니다.")
		expected := []string{"버전 1.5를 사용하세요.", "이상입니다."}
		if !reflect.DeepEqual(got, expected) {
			t.Errorf("SplitSentences() = %v, want %v", got, expected)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		if got := SplitSentences(""); len(got) != 0 {
			t.Errorf("SplitSentences(\"\") = %v, want empty", got)
		}
	})
}

func TestTruncate(t *testing.T) {
	t.Run("rune safe", func(t *testing.T) {
		if got := Truncate("휴학신청", 2); got != "휴학" {
			t.Errorf("Truncate() = %q, want %q", got, "휴학")
		}
	})

	t.Run("shorter than budget", func(t *testing.T) {
		if got := Truncate("abc", 10); got != "abc" {
			t.Errorf("Truncate() = %q, want %q", got, "abc")
		}
	})

	t.Run("non-positive budget", func(t *testing.T) {
		if got := Truncate("abc", 0); got != "" {
			t.Errorf("Truncate() = %q, want empty", got)
		}
	})
}
