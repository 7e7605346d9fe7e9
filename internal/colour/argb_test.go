package colour

import (
	"strings"
	"testing"
)

func TestComponents(t *testing.T) {
	c := ARGB(0x12, 0x34, 0x56, 0x78)
	if c != 0x12345678 {
		t.Fatalf("ARGB = %#x, want 0x12345678", c)
	}
	if Alpha(c) != 0x12 || Red(c) != 0x34 || Green(c) != 0x56 || Blue(c) != 0x78 {
		t.Errorf("components of %#x = %#x %#x %#x %#x", c, Alpha(c), Red(c), Green(c), Blue(c))
	}
	if got := RGB(0x34, 0x56, 0x78); got != 0xFF345678 {
		t.Errorf("RGB = %#x, want 0xff345678", got)
	}
	if got := SetAlpha(c, 0x80); got != 0x80345678 {
		t.Errorf("SetAlpha = %#x, want 0x80345678", got)
	}
	if got := Opaque(c); got != 0xFF345678 {
		t.Errorf("Opaque = %#x, want 0xff345678", got)
	}
	if got := Hex(c); got != "#345678" {
		t.Errorf("Hex = %q, want #345678", got)
	}
	if got := HexARGB(c); got != "#12345678" {
		t.Errorf("HexARGB = %q, want #12345678", got)
	}
}

func TestPreview(t *testing.T) {
	block := Preview(RGB(10, 20, 30), 4)
	if !strings.HasPrefix(block, "\033[48;2;10;20;30m    ") || !strings.HasSuffix(block, ansiReset) {
		t.Errorf("Preview = %q", block)
	}
	if got := Preview(Black, 0); !strings.Contains(got, strings.Repeat(" ", defaultWidth)) {
		t.Errorf("Preview with zero width = %q", got)
	}

	// Half-transparent white over black is drawn as mid grey.
	text := PreviewWithText(Black, SetAlpha(White, 0x80), "Aa", 6)
	if !strings.Contains(text, "\033[38;2;128;128;128m") {
		t.Errorf("PreviewWithText did not composite the foreground: %q", text)
	}
	if !strings.Contains(text, "  Aa  ") {
		t.Errorf("PreviewWithText did not centre the text: %q", text)
	}
	if got := PreviewWithText(White, Black, "truncated", 3); !strings.Contains(got, "tru"+ansiReset) {
		t.Errorf("PreviewWithText did not truncate: %q", got)
	}
}
