// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topic reduces a free-text query (possibly with a whole document
// appended) to the short keyword phrase sent to the search backend.
package topic

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/paperwiz/pkg/types"
)

// Extractor derives a search keyword from text.
type Extractor interface {
	ExtractTopic(text string) (string, error)
}

// shortQueryWords is the content-word count at or below which the query is
// used as typed, minus stopwords.
const shortQueryWords = 4

// Heuristic picks the most frequent content bigram, falling back to the most
// frequent content word. Ties go to the earliest occurrence.
type Heuristic struct{}

// ExtractTopic returns the keyword for text, or an error wrapping
// types.ErrTopicExtraction when text has no content words.
func (Heuristic) ExtractTopic(text string) (string, error) {
	words := contentWords(text)
	if len(words) == 0 {
		return "", fmt.Errorf("%w: no content words in query", types.ErrTopicExtraction)
	}
	if len(words) <= shortQueryWords {
		return strings.Join(words, " "), nil
	}

	if phrase, n := mostFrequent(bigrams(words)); n > 1 {
		return phrase, nil
	}
	phrase, _ := mostFrequent(words)
	return phrase, nil
}

// contentWords lowercases text, splits on anything that is not a letter,
// digit, or hyphen, and drops stopwords and one-letter tokens.
func contentWords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if len([]rune(f)) < 2 || stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func bigrams(words []string) []string {
	if len(words) < 2 {
		return nil
	}
	out := make([]string, 0, len(words)-1)
	for i := 0; i+1 < len(words); i++ {
		if words[i] == words[i+1] {
			continue
		}
		out = append(out, words[i]+" "+words[i+1])
	}
	return out
}

// mostFrequent returns the most common item and its count.
func mostFrequent(items []string) (string, int) {
	type stat struct {
		count, first int
	}
	stats := make(map[string]*stat)
	for i, it := range items {
		if s, ok := stats[it]; ok {
			s.count++
			continue
		}
		stats[it] = &stat{count: 1, first: i}
	}
	if len(stats) == 0 {
		return "", 0
	}

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := stats[keys[i]], stats[keys[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		return a.first < b.first
	})
	return keys[0], stats[keys[0]].count
}

var stopwords = func() map[string]bool {
	m := make(map[string]bool)
	for _, w := range strings.Fields(`
		a about above after again against all am an and any are as at be because
		been before being below between both but by can could did do does doing
		down during each few for from further had has have having he her here
		hers herself him himself his how i if in into is it its itself just me
		more most my myself no nor not now of off on once only or other our ours
		ourselves out over own same she should so some such than that the their
		theirs them themselves then there these they this those through to too
		under until up very was we were what when where which while who whom why
		will with would you your yours yourself yourselves
		find show give tell want need looking look search paper papers research
		article articles study studies recent please me using use used also new
		based approach approaches`) {
		m[w] = true
	}
	return m
}()
