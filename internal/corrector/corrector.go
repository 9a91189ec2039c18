package corrector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// WordStore persists user supplied words.
type WordStore interface {
	Add(ctx context.Context, word string) error
	Remove(ctx context.Context, word string) error
	All(ctx context.Context) ([]string, error)
}

type SpellCorrector struct {
	config  CorrectorConfig
	current atomic.Pointer[Snapshot]
	dict    WordStore

	// mu guards base and customWords. Readers only touch current.
	mu          sync.Mutex
	base        *Snapshot
	customWords map[string]bool
}

// =====================
// Initialization
// =====================

func NewSpellCorrector(ctx context.Context, cfg CorrectorConfig, snap *Snapshot, dict WordStore) (*SpellCorrector, error) {
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	if len(cfg.Alphabet) == 0 {
		return nil, fmt.Errorf("alphabet must not be empty")
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 1
	}
	sc := &SpellCorrector{
		config:      cfg,
		dict:        dict,
		base:        snap,
		customWords: make(map[string]bool),
	}
	sc.loadCustomWords(ctx)
	sc.publishLocked()
	return sc, nil
}

func (sc *SpellCorrector) loadCustomWords(ctx context.Context) {
	if sc.dict == nil {
		return
	}
	words, err := sc.dict.All(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load custom words")
		return
	}
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			sc.customWords[w] = true
		}
	}
	log.Info().Int("count", len(sc.customWords)).Msg("loaded custom words")
}

// publishLocked layers the custom words over the base snapshot and swaps
// the result in.
func (sc *SpellCorrector) publishLocked() {
	extra := make(map[string]int64, len(sc.customWords))
	for w := range sc.customWords {
		extra[w] = sc.config.CustomWordCount
	}
	sc.current.Store(sc.base.WithCorpus(sc.base.Corpus.Extend(extra)))
}

// Snapshot returns the snapshot corrections currently run against.
func (sc *SpellCorrector) Snapshot() *Snapshot {
	return sc.current.Load()
}

// Swap replaces the base tables. Calls already running finish on the
// snapshot they started with.
func (sc *SpellCorrector) Swap(snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("refusing snapshot: %w", err)
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.base = snap
	sc.publishLocked()
	return nil
}

// =====================
// Correction
// =====================

func (sc *SpellCorrector) Correct(word string) string {
	return sc.CorrectDetailed(word).Corrected
}

func (sc *SpellCorrector) CorrectDetailed(word string) Correction {
	return correct(sc.current.Load(), sc.config, word)
}

// CorrectBatch corrects words concurrently; results keep the input order.
func (sc *SpellCorrector) CorrectBatch(ctx context.Context, words []string) ([]Correction, error) {
	snap := sc.current.Load()
	out := make([]Correction, len(words))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sc.config.BatchConcurrency)
	for i, w := range words {
		i, w := i, w
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = correct(snap, sc.config, w)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func correct(snap *Snapshot, cfg CorrectorConfig, original string) Correction {
	res := Correction{Original: original, Corrected: original}
	if original == "" {
		res.Degraded = true
		res.Reason = ReasonEmptyInput
		return res
	}

	scores := make(map[string]float64)
	add := func(h Hypothesis) {
		scores[h.Word] += h.Score
		res.Hypotheses = append(res.Hypotheses, h)
	}
	if snap.Corpus.Known(original) {
		add(Hypothesis{Word: original, Edit: EditNone, Score: snap.Corpus.Probability(original)})
	}

	g := &generator{snap: snap, alphabet: cfg.Alphabet, emit: add}
	x := []rune(original)
	g.substitutions(x)
	g.deletions(x)
	g.insertions(x)
	if cfg.EnableTransposition {
		g.transpositions(x)
	}
	res.Skipped = g.skipped

	if len(scores) == 0 {
		res.Degraded = true
		res.Reason = ReasonNoCandidates
		log.Debug().Str("word", original).Msg("no candidates found, returning the original word")
		return res
	}

	res.Candidates = make([]Candidate, 0, len(scores))
	for w, s := range scores {
		res.Candidates = append(res.Candidates, Candidate{Word: w, Score: s})
	}
	// highest score first, ties broken by the lexicographically smaller word
	sort.Slice(res.Candidates, func(i, j int) bool {
		if res.Candidates[i].Score == res.Candidates[j].Score {
			return res.Candidates[i].Word < res.Candidates[j].Word
		}
		return res.Candidates[i].Score > res.Candidates[j].Score
	})
	res.Corrected = res.Candidates[0].Word
	res.Score = res.Candidates[0].Score
	return res
}

// =====================
// Custom dictionary
// =====================

// AddCustomWord stores word and makes it known to subsequent corrections.
func (sc *SpellCorrector) AddCustomWord(ctx context.Context, word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return fmt.Errorf("empty word")
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.dict != nil {
		if err := sc.dict.Add(ctx, word); err != nil {
			return fmt.Errorf("failed to store custom word: %w", err)
		}
	}
	sc.customWords[word] = true
	sc.publishLocked()
	return nil
}

// RemoveCustomWord forgets word. A word that is also in the base corpus
// keeps its corpus count.
func (sc *SpellCorrector) RemoveCustomWord(ctx context.Context, word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return fmt.Errorf("empty word")
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.dict != nil {
		if err := sc.dict.Remove(ctx, word); err != nil {
			return fmt.Errorf("failed to remove custom word: %w", err)
		}
	}
	delete(sc.customWords, word)
	sc.publishLocked()
	return nil
}

func (sc *SpellCorrector) CustomWords() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	out := make([]string, 0, len(sc.customWords))
	for w := range sc.customWords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
