package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadKeywords_MissingFileUsesDefaults(t *testing.T) {
	kw, err := LoadKeywords(filepath.Join(t.TempDir(), "keywords.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kw.AffirmativeMaxTokens != 5 {
		t.Errorf("expected default max tokens 5, got %d", kw.AffirmativeMaxTokens)
	}
	if !kw.MatchesAffirmative("yes") {
		t.Error("defaults should match a bare yes")
	}
}

func TestLoadKeywords_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	body := "affirmative: [aye]\nfantasy: [keeper]\naffirmativeMaxTokens: 2\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	kw, err := LoadKeywords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !kw.MatchesAffirmative("aye") {
		t.Error("custom affirmative keyword should match")
	}
	if kw.MatchesAffirmative("yes") {
		t.Error("file lists replace defaults; yes should no longer match")
	}
	if !kw.MatchesFantasy("who should be my keeper") {
		t.Error("custom fantasy keyword should match")
	}
}

func TestLoadKeywords_MalformedIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadKeywords(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestMatchesAffirmative(t *testing.T) {
	kw := DefaultKeywords()
	cases := []struct {
		msg  string
		want bool
	}{
		{"yes", true},
		{"Yes!", true},
		{"yeah show me", true},
		{"sure, do it", true},
		{"ok", true},
		{"that game broke my heart", false},       // "ok" must not match inside "broke"
		{"yes I would like a full breakdown of every single play", false}, // too long
		{"no", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := kw.MatchesAffirmative(tc.msg); got != tc.want {
			t.Errorf("MatchesAffirmative(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}

func TestMatchesFantasy(t *testing.T) {
	kw := DefaultKeywords()
	if !kw.MatchesFantasy("should I start Kelce or sit him this week?") {
		t.Error("start/sit should match")
	}
	if !kw.MatchesFantasy("any waiver pickups?") {
		t.Error("waiver should match")
	}
	if kw.MatchesFantasy("who won the chiefs game") {
		t.Error("plain score question should not match")
	}
	if !kw.MatchesFantasy("how is my team doing") {
		t.Error("multi-word keyword should match as a phrase")
	}
}

func TestKeywordSource_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")

	src := NewKeywordSource(path, discardLogger())
	if !src.Current().MatchesAffirmative("yes") {
		t.Fatal("source should start with defaults")
	}

	if err := os.WriteFile(path, []byte("affirmative: [aye]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src.reload()

	if src.Current().MatchesAffirmative("yes") {
		t.Error("reload should replace affirmative list")
	}
	if !src.Current().MatchesAffirmative("aye") {
		t.Error("reload should pick up new keywords")
	}
}

func TestKeywordSource_ReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	if err := os.WriteFile(path, []byte("affirmative: [aye]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewKeywordSource(path, discardLogger())
	if err := os.WriteFile(path, []byte(":\n  - ["), 0o644); err != nil {
		t.Fatal(err)
	}
	src.reload()

	if !src.Current().MatchesAffirmative("aye") {
		t.Error("bad reload should keep the previous lists")
	}
}
