package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(10, 3)

	if s.Width() != 10 || s.Height() != 3 {
		t.Fatalf("dimensions = %dx%d, expected 10x3", s.Width(), s.Height())
	}
	expected := strings.Repeat(" ", 10) + "\n" + strings.Repeat(" ", 10) + "\n" + strings.Repeat(" ", 10)
	if s.String() != expected {
		t.Errorf("new screen should be blank, got %q", s.String())
	}
}

func TestScreenSetColorOutOfBounds(t *testing.T) {
	s := NewScreen(4, 4)

	s.SetColor(-1, 0, 'x', ColorRed)
	s.SetColor(0, 4, 'x', ColorRed)
	s.SetColor(2, 1, 'o', ColorGreen)

	if got := s.GetCell(2, 1); got.Rune != 'o' || got.Color != ColorGreen {
		t.Errorf("GetCell(2, 1) = %+v, expected green 'o'", got)
	}
	if got := s.Get(10, 10); got != ' ' {
		t.Errorf("Get() out of bounds = %q, expected space", got)
	}
	if strings.ContainsRune(s.String(), 'x') {
		t.Error("out-of-bounds writes must be ignored")
	}
}

func TestScreenDrawTextClips(t *testing.T) {
	s := NewScreen(5, 1)
	s.DrawTextColor(2, 0, "hello", ColorYellow)

	if got := s.String(); got != "  hel" {
		t.Errorf("DrawTextColor clipped = %q, expected %q", got, "  hel")
	}
	if s.GetCell(2, 0).Color != ColorYellow {
		t.Error("text should carry its color")
	}
}

func TestScreenResizeClears(t *testing.T) {
	s := NewScreen(3, 3)
	s.Set(1, 1, '#')
	s.Resize(6, 2)

	if s.Width() != 6 || s.Height() != 2 {
		t.Fatalf("dimensions = %dx%d, expected 6x2", s.Width(), s.Height())
	}
	if strings.ContainsRune(s.String(), '#') {
		t.Error("resize should discard old content")
	}
}
