package corrector

import (
	"testing"

	"github.com/agnivade/levenshtein"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerationCounts(t *testing.T) {
	alphabet := []rune(letters)
	x := []rune("night")

	var subs, ins, rem, swaps int
	eachSubstitution(x, alphabet, func(int, rune, string) { subs++ })
	eachInsertion(x, alphabet, func(int, rune, string) { ins++ })
	eachRemoval(x, func(int, string) { rem++ })
	eachSwap(x, func(int, string) { swaps++ })

	assert.Equal(t, 5*25, subs)
	assert.Equal(t, 6*26, ins)
	assert.Equal(t, 5, rem)
	assert.Equal(t, 4, swaps)

	swaps = 0
	eachSwap([]rune("pupppy"), func(int, string) { swaps++ })
	assert.Equal(t, 3, swaps)
}

func TestEnumerationIsOneEditAway(t *testing.T) {
	alphabet := []rune(letters)
	for _, w := range []string{"awesome", "a", "pupppy"} {
		x := []rune(w)
		eachSubstitution(x, alphabet, func(_ int, _ rune, cand string) {
			assert.Equal(t, 1, levenshtein.ComputeDistance(w, cand))
		})
		eachInsertion(x, alphabet, func(_ int, _ rune, cand string) {
			assert.Equal(t, 1, levenshtein.ComputeDistance(w, cand))
		})
		eachRemoval(x, func(_ int, cand string) {
			assert.Equal(t, 1, levenshtein.ComputeDistance(w, cand))
		})
	}
}

// A word gained by putting a letter back into x yields x again when that
// letter is taken out, and the other way round.
func TestInsertionRemovalAreInverse(t *testing.T) {
	alphabet := []rune(letters)
	for _, w := range []string{"aweome", "pupy", "stpid", "x"} {
		x := []rune(w)
		eachInsertion(x, alphabet, func(_ int, _ rune, cand string) {
			found := false
			eachRemoval([]rune(cand), func(_ int, back string) {
				if back == w {
					found = true
				}
			})
			assert.True(t, found, "%s -> %s", w, cand)
		})
		eachRemoval(x, func(_ int, cand string) {
			found := false
			eachInsertion([]rune(cand), alphabet, func(_ int, _ rune, back string) {
				if back == w {
					found = true
				}
			})
			assert.True(t, found, "%s -> %s", w, cand)
		})
	}
}

func TestGeneratorContexts(t *testing.T) {
	snap := fixtureSnapshot()
	var got []Hypothesis
	g := &generator{snap: snap, alphabet: []rune(letters), emit: func(h Hypothesis) { got = append(got, h) }}

	g.deletions([]rune("aweome"))
	require.Len(t, got, 1)
	assert.Equal(t, "awesome", got[0].Word)
	assert.Equal(t, EditDeletion, got[0].Edit)
	assert.Equal(t, 3, got[0].Position)
	assert.InDelta(t, snap.Corpus.Probability("awesome")*30.0/1000.0, got[0].Score, 1e-15)

	got = nil
	g.insertions([]rune("awesoome"))
	require.Len(t, got, 2)
	pw := snap.Corpus.Probability("awesome")
	assert.InDelta(t, pw*10.0/1000.0, got[0].Score, 1e-15) // after 's'
	assert.InDelta(t, pw*20.0/1000.0, got[1].Score, 1e-15) // after 'o'
	assert.Zero(t, g.skipped)
}

func TestEditKindString(t *testing.T) {
	assert.Equal(t, "substitution", EditSubstitution.String())
	assert.Equal(t, "transposition", EditTransposition.String())
	b, err := EditDeletion.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "deletion", string(b))
}
