package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func newProcessor() *TextProcessor {
	return NewTextProcessor(zap.NewNop())
}

func TestPreview_ShortTextUnchanged(t *testing.T) {
	tp := newProcessor()

	for _, text := range []string{"", "short", strings.Repeat("x", PreviewLength)} {
		if got := tp.Preview(text); got != text {
			t.Errorf("Preview(%d chars) = %q, want unchanged", len(text), got)
		}
	}
}

func TestPreview_LongTextTruncatedWithEllipsis(t *testing.T) {
	tp := newProcessor()

	text := strings.Repeat("x", PreviewLength+1)
	got := tp.Preview(text)
	want := strings.Repeat("x", PreviewLength) + "..."
	if got != want {
		t.Errorf("Preview = %q, want %q", got, want)
	}
}

func TestPreview_CountsRunesNotBytes(t *testing.T) {
	tp := newProcessor()

	// 100 multibyte runes fit exactly even though the byte count is larger.
	text := strings.Repeat("é", PreviewLength)
	if got := tp.Preview(text); got != text {
		t.Errorf("multibyte text at the limit should be unchanged, got %q", got)
	}

	longer := strings.Repeat("é", PreviewLength+5)
	got := tp.Preview(longer)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis marker, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Error("preview split a rune")
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n != PreviewLength {
		t.Errorf("expected %d runes before the marker, got %d", PreviewLength, n)
	}
}

func TestTruncateText_WithinLimitUnchanged(t *testing.T) {
	tp := newProcessor()

	text := "hello world"
	if got := tp.TruncateText(text, 100); got != text {
		t.Errorf("TruncateText = %q, want unchanged", got)
	}
	if got := tp.TruncateText(text, 0); got != text {
		t.Errorf("TruncateText with no limit = %q, want unchanged", got)
	}
}

func TestTruncateText_NeverSplitsRunes(t *testing.T) {
	tp := newProcessor()

	text := strings.Repeat("日本語", 100)
	for _, max := range []int{1, 2, 4, 5, 50, 301} {
		got := tp.TruncateText(text, max)
		if !utf8.ValidString(got) {
			t.Errorf("TruncateText(max=%d) produced invalid UTF-8", max)
		}
		if !strings.Contains(got, "truncated") {
			t.Errorf("TruncateText(max=%d) missing truncation marker", max)
		}
	}
}

func TestSanitizeUTF8_DropsInvalidSequences(t *testing.T) {
	tp := newProcessor()

	invalid := "valid\xff\xfetail"
	got := tp.SanitizeUTF8(invalid)
	if !utf8.ValidString(got) {
		t.Errorf("SanitizeUTF8 left invalid UTF-8: %q", got)
	}
	if !strings.Contains(got, "valid") || !strings.Contains(got, "tail") {
		t.Errorf("SanitizeUTF8 dropped valid content: %q", got)
	}
}

func TestSanitizeUTF8_NormalizesToNFC(t *testing.T) {
	tp := newProcessor()

	// "e" + combining acute accent normalizes to the precomposed form.
	decomposed := "cafe\u0301"
	if got := tp.SanitizeUTF8(decomposed); got != "caf\u00e9" {
		t.Errorf("SanitizeUTF8 = %q, want %q", got, "caf\u00e9")
	}
}
