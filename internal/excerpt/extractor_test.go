package excerpt

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	fullText := "휴학은 학과 사무실에서 신청합니다. " +
		"신청 기간을 지키지 않으면 불이익이 있을 수 있습니다. " +
		"자세한 내용은 홈페이지를 참고하세요. " +
		"문의는 학과 사무실로 해주세요."

	t.Run("ranks sentences by token matches", func(t *testing.T) {
		got := Extract(fullText, "휴학은 사무실 어디", MaxSentences)

		want := []string{
			"휴학은 학과 사무실에서 신청합니다.",
			"문의는 학과 사무실로 해주세요.",
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Extract() = %v, want %v", got, want)
		}
	})

	t.Run("honors the sentence budget", func(t *testing.T) {
		got := Extract(fullText, "사무실 신청 불이익이", 1)

		if len(got) != 1 {
			t.Fatalf("expected 1 sentence, got %d: %v", len(got), got)
		}
	})

	t.Run("ties keep text order", func(t *testing.T) {
		got := Extract(fullText, "사무실", MaxSentences)

		want := []string{
			"휴학은 학과 사무실에서 신청합니다.",
			"문의는 학과 사무실로 해주세요.",
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Extract() = %v, want %v", got, want)
		}
	})

	t.Run("no matching sentence yields nothing", func(t *testing.T) {
		if got := Extract(fullText, "등록금", MaxSentences); len(got) != 0 {
			t.Errorf("expected no sentences, got %v", got)
		}
	})

	t.Run("short-only tokens yield nil", func(t *testing.T) {
		if got := Extract(fullText, "수 있어", MaxSentences); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("zero budget yields nil", func(t *testing.T) {
		if got := Extract(fullText, "사무실", 0); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

func TestJoin(t *testing.T) {
	got := Join([]string{"첫 문장입니다.", "둘째 문장입니다."})
	want := "첫 문장입니다. 둘째 문장입니다."
	if got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}

	if got := Join(nil); got != "" {
		t.Errorf("Join(nil) = %q, want empty", got)
	}
}
