package domain

import "strings"

// Language is a lowercase language tag such as "en" or "es".
type Language string

// NormalizeLanguage lowercases and trims a raw language code.
func NormalizeLanguage(s string) Language {
	return Language(strings.ToLower(strings.TrimSpace(s)))
}

func (l Language) String() string { return string(l) }

// Record is one catalog entry in one language. Records for the same ID share
// Author and MediaURL; the text fields may be translated.
type Record struct {
	ID          string   `json:"id"                  yaml:"id"`
	Lang        Language `json:"lang"                yaml:"lang"`
	Name        string   `json:"name"                yaml:"name"`
	Author      string   `json:"author"              yaml:"author"`
	Category    string   `json:"category"            yaml:"category"`
	Description string   `json:"description"         yaml:"description"`
	MediaURL    string   `json:"media_url,omitempty" yaml:"media_url,omitempty"`
}

// LanguageSet is the fixed set of languages the catalog is served in.
type LanguageSet struct {
	ordered []Language
	index   map[Language]struct{}
}

// NewLanguageSet builds a set from raw codes, dropping blanks and duplicates
// while preserving order.
func NewLanguageSet(codes ...string) LanguageSet {
	s := LanguageSet{index: make(map[Language]struct{}, len(codes))}
	for _, c := range codes {
		l := NormalizeLanguage(c)
		if l == "" {
			continue
		}
		if _, dup := s.index[l]; dup {
			continue
		}
		s.index[l] = struct{}{}
		s.ordered = append(s.ordered, l)
	}
	return s
}

// Parse validates raw against the set.
func (s LanguageSet) Parse(raw string) (Language, error) {
	l := NormalizeLanguage(raw)
	if _, ok := s.index[l]; !ok {
		return "", ErrUnsupportedLanguage
	}
	return l, nil
}

// Contains reports whether l is supported.
func (s LanguageSet) Contains(l Language) bool {
	_, ok := s.index[l]
	return ok
}

// All returns the supported languages in configuration order.
func (s LanguageSet) All() []Language {
	out := make([]Language, len(s.ordered))
	copy(out, s.ordered)
	return out
}
