package app

import "testing"

func TestParseLang(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Lang
		ok   bool
	}{
		{"en", LangEnglish, true},
		{"EN", LangEnglish, true},
		{"hi", LangHindi, true},
		{"hi-IN", LangHindi, true},
		{"en-US", LangEnglish, true},
		{"fr", LangEnglish, false},
		{"", LangEnglish, false},
	} {
		got, ok := ParseLang(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseLang(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTranslationFallback(t *testing.T) {
	// "newChat" has no Hindi entry; it must fall back per key, not per set.
	if got := T(LangHindi, "newChat"); got != translations[LangEnglish]["newChat"] {
		t.Errorf("T(hi, newChat) = %q, want English fallback", got)
	}
	// A translated key stays translated.
	if got := T(LangHindi, "greeting"); got == translations[LangEnglish]["greeting"] {
		t.Errorf("T(hi, greeting) fell back unnecessarily")
	}
	if got := T(LangEnglish, "greeting"); got == "" {
		t.Errorf("T(en, greeting) empty")
	}
}

func TestEveryHindiKeyExistsInEnglish(t *testing.T) {
	for key := range translations[LangHindi] {
		if _, ok := translations[LangEnglish][key]; !ok {
			t.Errorf("hindi key %q has no english base", key)
		}
	}
}
