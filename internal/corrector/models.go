package corrector

import (
	"errors"
	"time"
)

// StartOfWord is the context used for edits at the first position of a word.
const StartOfWord = ""

var (
	ErrUnknownLetterStatistic = errors.New("letter statistic not observed")
	ErrEmptyCorpus            = errors.New("word corpus is empty")
)

// FrequencyCorpus maps words to their occurrence counts. It is never
// mutated after construction; Extend produces a new corpus layered over
// the old one.
type FrequencyCorpus struct {
	counts  map[string]int64
	overlay map[string]int64
	total   int64
}

// NewFrequencyCorpus takes ownership of counts.
func NewFrequencyCorpus(counts map[string]int64) *FrequencyCorpus {
	var total int64
	for _, c := range counts {
		total += c
	}
	return &FrequencyCorpus{counts: counts, total: total}
}

// Extend returns a corpus where every word in extra has exactly the given
// count. The receiver's table is shared, not copied.
func (fc *FrequencyCorpus) Extend(extra map[string]int64) *FrequencyCorpus {
	if len(extra) == 0 {
		return fc
	}
	overlay := make(map[string]int64, len(fc.overlay)+len(extra))
	for w, c := range fc.overlay {
		overlay[w] = c
	}
	total := fc.total
	for w, c := range extra {
		total += c - fc.Count(w)
		overlay[w] = c
	}
	return &FrequencyCorpus{counts: fc.counts, overlay: overlay, total: total}
}

func (fc *FrequencyCorpus) Count(word string) int64 {
	if c, ok := fc.overlay[word]; ok {
		return c
	}
	return fc.counts[word]
}

func (fc *FrequencyCorpus) Known(word string) bool {
	if _, ok := fc.overlay[word]; ok {
		return true
	}
	_, ok := fc.counts[word]
	return ok
}

// Probability is the relative frequency P(w). Unknown words and an empty
// corpus yield zero.
func (fc *FrequencyCorpus) Probability(word string) float64 {
	if fc.total <= 0 {
		return 0
	}
	return float64(fc.Count(word)) / float64(fc.total)
}

func (fc *FrequencyCorpus) Total() int64 { return fc.total }

// Size is the number of distinct words.
func (fc *FrequencyCorpus) Size() int {
	n := len(fc.counts)
	for w := range fc.overlay {
		if _, ok := fc.counts[w]; !ok {
			n++
		}
	}
	return n
}

// Each calls fn for every word with its effective count.
func (fc *FrequencyCorpus) Each(fn func(word string, count int64)) {
	for w, c := range fc.counts {
		if _, ok := fc.overlay[w]; ok {
			continue
		}
		fn(w, c)
	}
	for w, c := range fc.overlay {
		fn(w, c)
	}
}

// LetterStatistics holds single letter and ordered letter pair counts.
type LetterStatistics struct {
	Unigram map[string]int64
	Bigram  map[string]int64
}

func (ls LetterStatistics) unigram(letter string) (int64, error) {
	if c := ls.Unigram[letter]; c > 0 {
		return c, nil
	}
	return 0, ErrUnknownLetterStatistic
}

// pair returns the bigram count of prefix+letter. A word-initial pair that
// was never observed falls back to the unigram count of letter.
func (ls LetterStatistics) pair(prefix, letter string) (int64, error) {
	if c := ls.Bigram[prefix+letter]; c > 0 {
		return c, nil
	}
	if prefix == StartOfWord {
		return ls.unigram(letter)
	}
	return 0, ErrUnknownLetterStatistic
}

// ConfusionKey identifies one edit: the context (a letter or StartOfWord)
// and the letter involved.
type ConfusionKey struct {
	Context string
	Char    string
}

// ConfusionModel holds observed edit counts. A missing key is a zero count.
type ConfusionModel struct {
	// Substitution is keyed by (intended letter, typed letter).
	Substitution map[ConfusionKey]int64
	// Deletion is keyed by (preceding letter, dropped letter).
	Deletion map[ConfusionKey]int64
	// Insertion is keyed by (preceding letter, extra letter).
	Insertion map[ConfusionKey]int64
	// Transposition is keyed by the intended pair (first, second).
	Transposition map[ConfusionKey]int64
}

// Snapshot bundles every lookup a correction needs.
type Snapshot struct {
	Corpus   *FrequencyCorpus
	Letters  LetterStatistics
	Errors   ConfusionModel
	LoadedAt time.Time
}

// Validate checks the snapshot can produce probabilities.
func (s *Snapshot) Validate() error {
	if s == nil || s.Corpus == nil || s.Corpus.Total() <= 0 {
		return ErrEmptyCorpus
	}
	return nil
}

// WithCorpus returns a shallow copy of the snapshot using corpus.
func (s *Snapshot) WithCorpus(corpus *FrequencyCorpus) *Snapshot {
	cp := *s
	cp.Corpus = corpus
	return &cp
}
