package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Keywords holds the phrase lists driving the session preprocessor and the
// injury scan. The lists are behavior tuning, not core logic, so they live in
// their own YAML file.
type Keywords struct {
	Affirmative          []string `yaml:"affirmative"`
	Fantasy              []string `yaml:"fantasy"`
	Injury               []string `yaml:"injury"`
	AffirmativeMaxTokens int      `yaml:"affirmativeMaxTokens"`
}

// DefaultKeywords returns the built-in keyword lists.
func DefaultKeywords() Keywords {
	return Keywords{
		Affirmative: []string{
			"yes", "yeah", "yep", "sure", "ok", "okay", "please",
			"absolutely", "definitely", "show me", "do it", "go ahead", "sounds good",
		},
		Fantasy: []string{
			"fantasy", "roster", "lineup", "trade", "waiver", "start", "sit",
			"draft", "matchup", "my team", "bench", "flex",
		},
		Injury: []string{
			"injury", "injured", "questionable", "doubtful", "out", "ir",
			"hamstring", "concussion", "acl", "mcl", "ankle", "shoulder",
			"knee", "groin", "ruled out", "week-to-week", "day-to-day",
		},
		AffirmativeMaxTokens: 5,
	}
}

// LoadKeywords reads the YAML keyword file at path. A missing file returns
// the defaults; a malformed file is an error so bad edits don't silently
// disable priming.
func LoadKeywords(path string) (*Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			kw := DefaultKeywords()
			return &kw, nil
		}
		return nil, fmt.Errorf("read keywords %s: %w", path, err)
	}

	kw := DefaultKeywords()
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return nil, fmt.Errorf("parse keywords %s: %w", path, err)
	}
	if kw.AffirmativeMaxTokens <= 0 {
		kw.AffirmativeMaxTokens = DefaultKeywords().AffirmativeMaxTokens
	}
	return &kw, nil
}

// SaveKeywords writes kw to path as YAML. Used by onboarding to seed an
// editable file.
func SaveKeywords(kw *Keywords, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create keywords dir: %w", err)
	}
	data, err := yaml.Marshal(kw)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write keywords %s: %w", path, err)
	}
	return nil
}

// tokenize lowercases s and splits it into word tokens, dropping punctuation.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

// matchKeyword reports whether kw appears in the token list: multi-word
// keywords match as substrings of the normalized text, single words must
// match a whole token (so "ok" never matches inside "broke").
func matchKeyword(tokens []string, kw string) bool {
	kw = strings.ToLower(kw)
	if strings.ContainsRune(kw, ' ') {
		return strings.Contains(" "+strings.Join(tokens, " ")+" ", " "+kw+" ")
	}
	for _, tok := range tokens {
		if tok == kw {
			return true
		}
	}
	return false
}

// MatchesAffirmative reports whether msg is a short affirmative reply:
// at most AffirmativeMaxTokens tokens and at least one affirmative keyword.
func (k *Keywords) MatchesAffirmative(msg string) bool {
	tokens := tokenize(msg)
	if len(tokens) == 0 || len(tokens) > k.AffirmativeMaxTokens {
		return false
	}
	for _, kw := range k.Affirmative {
		if matchKeyword(tokens, kw) {
			return true
		}
	}
	return false
}

// MatchesFantasy reports whether msg touches fantasy-football intent.
func (k *Keywords) MatchesFantasy(msg string) bool {
	tokens := tokenize(msg)
	for _, kw := range k.Fantasy {
		if matchKeyword(tokens, kw) {
			return true
		}
	}
	return false
}

// MatchesInjury reports whether text mentions an injury-related term.
func (k *Keywords) MatchesInjury(text string) bool {
	tokens := tokenize(text)
	for _, kw := range k.Injury {
		if matchKeyword(tokens, kw) {
			return true
		}
	}
	return false
}

// KeywordSource serves the current keyword lists and hot-reloads them when
// the file changes, so tuning never needs a restart.
type KeywordSource struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	current *Keywords
}

// NewKeywordSource loads path (or the defaults when it is missing) and
// returns a source ready for Watch.
func NewKeywordSource(path string, logger *slog.Logger) *KeywordSource {
	s := &KeywordSource{path: path, logger: logger}
	kw, err := LoadKeywords(path)
	if err != nil {
		logger.Warn("keywords load failed, using defaults", "path", path, "error", err)
		def := DefaultKeywords()
		kw = &def
	}
	s.current = kw
	return s
}

// Current returns the active keyword lists.
func (s *KeywordSource) Current() *Keywords {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *KeywordSource) reload() {
	kw, err := LoadKeywords(s.path)
	if err != nil {
		s.logger.Warn("keywords reload failed, keeping previous", "path", s.path, "error", err)
		return
	}
	s.mu.Lock()
	s.current = kw
	s.mu.Unlock()
	s.logger.Info("keywords reloaded", "path", s.path)
}

// Watch blocks until ctx is done, reloading the keyword file on change.
// The parent directory is watched because editors replace files by rename.
func (s *KeywordSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("keywords watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("keywords watch dir: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				s.reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("keywords watcher error", "error", err)
		}
	}
}
