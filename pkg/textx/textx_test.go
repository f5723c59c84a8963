// Package textx contains tests for the text utilities.
package textx

import "testing"

func TestSanitizeText(t *testing.T) {
	in := "he\x00llo\nwo\x7frld\t!"
	got := SanitizeText(in)
	if got != "hello\nworld\t!" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("a\t b\n\n c"); got != "a b c" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestWordCount(t *testing.T) {
	if n := WordCount("  one two\nthree "); n != 3 {
		t.Fatalf("unexpected count: %d", n)
	}
	if n := WordCount(""); n != 0 {
		t.Fatalf("empty string should count 0, got %d", n)
	}
}

func TestContainsDigit(t *testing.T) {
	if !ContainsDigit("raised revenue by 40%") {
		t.Fatal("expected digit")
	}
	if ContainsDigit("no numbers here") {
		t.Fatal("unexpected digit")
	}
}
