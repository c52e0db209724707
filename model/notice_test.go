package model

import "testing"

func TestSearchableText(t *testing.T) {
	tests := []struct {
		name   string
		notice Notice
		want   string
	}{
		{
			name: "joins title, stripped content and OCR text",
			notice: Notice{
				Title:   "휴학 신청 방법",
				Content: "<p>휴학은 <b>학과 사무실</b>에서 신청합니다.</p>",
				OCRText: "신청서 양식 첨부",
			},
			want: "휴학 신청 방법 휴학은 학과 사무실에서 신청합니다. 신청서 양식 첨부",
		},
		{
			name:   "empty fields are skipped",
			notice: Notice{Title: "공지"},
			want:   "공지",
		},
		{
			name:   "entirely empty notice",
			notice: Notice{},
			want:   "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.notice.SearchableText(); got != tc.want {
				t.Errorf("SearchableText() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPlainContent(t *testing.T) {
	tests := []struct {
		name   string
		notice Notice
		want   string
	}{
		{
			name:   "strips markup",
			notice: Notice{Content: "<div>본문 <a href=\"x\">링크</a> 텍스트</div>"},
			want:   "본문 링크 텍스트",
		},
		{
			name:   "appends OCR text on a new line",
			notice: Notice{Content: "<p>본문</p>", OCRText: "이미지 텍스트"},
			want:   "본문\n이미지 텍스트",
		},
		{
			name:   "OCR text only",
			notice: Notice{OCRText: "이미지 텍스트"},
			want:   "이미지 텍스트",
		},
		{
			name:   "nothing at all",
			notice: Notice{},
			want:   "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.notice.PlainContent(); got != tc.want {
				t.Errorf("PlainContent() = %q, want %q", got, tc.want)
			}
		})
	}
}
