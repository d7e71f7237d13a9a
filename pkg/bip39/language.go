package bip39

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39/wordlists"
)

// Language names a BIP-39 wordlist.
type Language string

const (
	English            Language = "english"
	Japanese           Language = "japanese"
	Korean             Language = "korean"
	Spanish            Language = "spanish"
	French             Language = "french"
	Italian            Language = "italian"
	ChineseSimplified  Language = "chinese_simplified"
	ChineseTraditional Language = "chinese_traditional"
)

// Wordlist is an ordered, immutable list of WordlistSize unique words and
// its inverse. Safe for concurrent use.
type Wordlist struct {
	words []string
	index map[string]uint16
}

// Word returns the word at idx. idx must be below WordlistSize.
func (wl *Wordlist) Word(idx uint16) string {
	return wl.words[idx]
}

// Index returns the position of word. Matching is exact and case-sensitive.
func (wl *Wordlist) Index(word string) (uint16, bool) {
	idx, ok := wl.index[word]
	return idx, ok
}

// Len returns the number of words, always WordlistSize.
func (wl *Wordlist) Len() int {
	return len(wl.words)
}

func newWordlist(lang Language, src []string) *Wordlist {
	if len(src) != WordlistSize {
		panic(fmt.Sprintf("bip39: %s wordlist has %d words, want %d", lang, len(src), WordlistSize))
	}
	wl := &Wordlist{
		words: make([]string, WordlistSize),
		index: make(map[string]uint16, WordlistSize),
	}
	copy(wl.words, src)
	for i, w := range wl.words {
		if _, dup := wl.index[w]; dup {
			panic(fmt.Sprintf("bip39: %s wordlist repeats %q", lang, w))
		}
		wl.index[w] = uint16(i)
	}
	return wl
}

type wordlistEntry struct {
	source func() []string
	once   sync.Once
	list   *Wordlist
}

func (e *wordlistEntry) load(lang Language) *Wordlist {
	e.once.Do(func() {
		e.list = newWordlist(lang, e.source())
	})
	return e.list
}

var languageOrder = []Language{
	English, Japanese, Korean, Spanish, French, Italian, ChineseSimplified, ChineseTraditional,
}

var wordlistTable = map[Language]*wordlistEntry{
	English:            {source: func() []string { return wordlists.English }},
	Japanese:           {source: func() []string { return wordlists.Japanese }},
	Korean:             {source: func() []string { return wordlists.Korean }},
	Spanish:            {source: func() []string { return wordlists.Spanish }},
	French:             {source: func() []string { return wordlists.French }},
	Italian:            {source: func() []string { return wordlists.Italian }},
	ChineseSimplified:  {source: func() []string { return wordlists.ChineseSimplified }},
	ChineseTraditional: {source: func() []string { return wordlists.ChineseTraditional }},
}

var languageAliases = map[string]Language{
	"en":      English,
	"ja":      Japanese,
	"jp":      Japanese,
	"ko":      Korean,
	"es":      Spanish,
	"fr":      French,
	"it":      Italian,
	"zh_hans": ChineseSimplified,
	"zh_cn":   ChineseSimplified,
	"zh_hant": ChineseTraditional,
	"zh_tw":   ChineseTraditional,
}

// Languages returns all supported languages.
func Languages() []Language {
	out := make([]Language, len(languageOrder))
	copy(out, languageOrder)
	return out
}

// ParseLanguage resolves a language name or short code ("en", "zh-hans").
func ParseLanguage(s string) (Language, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if _, ok := wordlistTable[Language(key)]; ok {
		return Language(key), nil
	}
	if lang, ok := languageAliases[key]; ok {
		return lang, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// Wordlist returns the language's wordlist, building it on first use.
func (l Language) Wordlist() (*Wordlist, error) {
	entry, ok := wordlistTable[l]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, string(l))
	}
	return entry.load(l), nil
}

func (l Language) String() string {
	return string(l)
}
