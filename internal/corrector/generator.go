package corrector

import (
	"errors"

	"github.com/rs/zerolog/log"
)

// EditKind names the error a hypothesis undoes.
type EditKind int

const (
	EditNone EditKind = iota
	EditSubstitution
	EditDeletion
	EditInsertion
	EditTransposition
)

func (k EditKind) String() string {
	switch k {
	case EditNone:
		return "none"
	case EditSubstitution:
		return "substitution"
	case EditDeletion:
		return "deletion"
	case EditInsertion:
		return "insertion"
	case EditTransposition:
		return "transposition"
	}
	return "unknown"
}

func (k EditKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Hypothesis is one way the observed token could have come from Word.
// Position is the rune index the edit applies at.
type Hypothesis struct {
	Word     string   `json:"word"`
	Edit     EditKind `json:"edit"`
	Position int      `json:"position"`
	Score    float64  `json:"score"`
}

// generator enumerates known words one edit away from a token and scores
// them as P(w) * P(x|w) against a single snapshot.
type generator struct {
	snap     *Snapshot
	alphabet []rune
	emit     func(Hypothesis)
	skipped  int
}

func (g *generator) channel(count, denom int64) float64 {
	return float64(count) / float64(denom)
}

func (g *generator) accept(h Hypothesis, channel func() (float64, error)) {
	p, err := channel()
	if err != nil {
		if errors.Is(err, ErrUnknownLetterStatistic) {
			g.skipped++
			log.Debug().
				Str("candidate", h.Word).
				Stringer("edit", h.Edit).
				Int("position", h.Position).
				Msg("skipping hypothesis without letter statistics")
			return
		}
		log.Error().Err(err).Str("candidate", h.Word).Msg("failed to score hypothesis")
		return
	}
	h.Score = g.snap.Corpus.Probability(h.Word) * p
	g.emit(h)
}

// substitutions: the intended letter w[i] was typed as x[i].
func (g *generator) substitutions(x []rune) {
	eachSubstitution(x, g.alphabet, func(i int, c rune, cand string) {
		if !g.snap.Corpus.Known(cand) {
			return
		}
		intended, typed := string(c), string(x[i])
		g.accept(Hypothesis{Word: cand, Edit: EditSubstitution, Position: i}, func() (float64, error) {
			denom, err := g.snap.Letters.unigram(intended)
			if err != nil {
				return 0, err
			}
			return g.channel(g.snap.Errors.Substitution[ConfusionKey{intended, typed}], denom), nil
		})
	})
}

// deletions: a letter was dropped from the intended word, so one is put back.
func (g *generator) deletions(x []rune) {
	eachInsertion(x, g.alphabet, func(i int, c rune, cand string) {
		if !g.snap.Corpus.Known(cand) {
			return
		}
		prefix, dropped := contextAt(x, i), string(c)
		g.accept(Hypothesis{Word: cand, Edit: EditDeletion, Position: i}, func() (float64, error) {
			denom, err := g.snap.Letters.pair(prefix, dropped)
			if err != nil {
				return 0, err
			}
			return g.channel(g.snap.Errors.Deletion[ConfusionKey{prefix, dropped}], denom), nil
		})
	})
}

// insertions: an extra letter was typed, so one is taken out.
func (g *generator) insertions(x []rune) {
	eachRemoval(x, func(i int, cand string) {
		if !g.snap.Corpus.Known(cand) {
			return
		}
		prefix, extra := contextAt(x, i), string(x[i])
		g.accept(Hypothesis{Word: cand, Edit: EditInsertion, Position: i}, func() (float64, error) {
			denom, err := g.snap.Letters.unigram(extra)
			if err != nil {
				return 0, err
			}
			return g.channel(g.snap.Errors.Insertion[ConfusionKey{prefix, extra}], denom), nil
		})
	})
}

// transpositions: the intended pair w[i]w[i+1] was typed swapped.
func (g *generator) transpositions(x []rune) {
	eachSwap(x, func(i int, cand string) {
		if !g.snap.Corpus.Known(cand) {
			return
		}
		first, second := string(x[i+1]), string(x[i])
		g.accept(Hypothesis{Word: cand, Edit: EditTransposition, Position: i}, func() (float64, error) {
			denom, err := g.snap.Letters.pair(first, second)
			if err != nil {
				return 0, err
			}
			return g.channel(g.snap.Errors.Transposition[ConfusionKey{first, second}], denom), nil
		})
	})
}
