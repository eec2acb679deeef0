package similarity

import "testing"

func TestTextIdentical(t *testing.T) {
	for _, s := range []string{"diuna", "the lord of the rings", "x"} {
		if got := Text(s, s); got != 1 {
			t.Fatalf("Text(%q, %q) = %v, want 1", s, s, got)
		}
	}
}

func TestTextEmptyAgainstAnything(t *testing.T) {
	if got := Text("", "anything"); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
	if got := Text("anything", ""); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
}

func TestTextBothEmpty(t *testing.T) {
	if got := Text("", ""); got != 1 {
		t.Fatalf("expected 1 for two empty strings, got %v", got)
	}
}

func TestTextSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"frank herbert", "herbert frank"},
		{"diuna", "dune"},
		{"wladca pierscieni", "wladca pierscieni tom 1"},
	}
	for _, p := range pairs {
		if ab, ba := Text(p[0], p[1]), Text(p[1], p[0]); ab != ba {
			t.Fatalf("Text(%q,%q)=%v but Text(%q,%q)=%v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestTextDisjoint(t *testing.T) {
	if got := Text("abcd", "wxyz"); got != 0 {
		t.Fatalf("expected 0 for disjoint bigrams, got %v", got)
	}
}

func TestTextIgnoresSpacing(t *testing.T) {
	if got := Text("harper lee", "harperlee"); got != 1 {
		t.Fatalf("expected whitespace-insensitive match, got %v", got)
	}
}

func TestAuthorSetSymmetric(t *testing.T) {
	a := []string{"Frank Herbert", "Brian Herbert"}
	b := []string{"herbert frank"}
	if ab, ba := AuthorSet(a, b), AuthorSet(b, a); ab != ba {
		t.Fatalf("AuthorSet not symmetric: %v vs %v", ab, ba)
	}
}

func TestAuthorSetWordOrder(t *testing.T) {
	if got := AuthorSet([]string{"Lee Harper"}, []string{"harper lee"}); got != 1 {
		t.Fatalf("expected reordered author names to score 1, got %v", got)
	}
}

func TestAuthorSetBestPairWins(t *testing.T) {
	a := []string{"Isaac Asimov", "Frank Herbert"}
	b := []string{"frank herbert"}
	if got := AuthorSet(a, b); got != 1 {
		t.Fatalf("expected best matching pair to score 1, got %v", got)
	}
}

func TestAuthorSetEmpty(t *testing.T) {
	if got := AuthorSet(nil, []string{"frank herbert"}); got != 0 {
		t.Fatalf("expected 0 for empty set, got %v", got)
	}
}

func TestOrderAuthorWords(t *testing.T) {
	if got := OrderAuthorWords("Frank  Herbert"); got != "frank herbert" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if got := OrderAuthorWords("Herbert Frank"); got != "frank herbert" {
		t.Fatalf("word order must not matter: %q", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Diuna \n Tom  1 "); got != "diuna tom 1" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
