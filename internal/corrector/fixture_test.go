package corrector

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const letters = "abcdefghijklmnopqrstuvwxyz"

var fixtureWords = map[string]int64{
	"awesome":   1000,
	"night":     5000,
	"playful":   300,
	"tantrum":   200,
	"puppy":     400,
	"stupid":    800,
	"silly":     600,
	"justified": 250,
}

func uniformLetters(unigram, bigram int64) LetterStatistics {
	ls := LetterStatistics{Unigram: map[string]int64{}, Bigram: map[string]int64{}}
	for _, a := range letters {
		ls.Unigram[string(a)] = unigram
		for _, b := range letters {
			ls.Bigram[string(a)+string(b)] = bigram
		}
	}
	return ls
}

func newSnapshot(words map[string]int64, ls LetterStatistics, cm ConfusionModel) *Snapshot {
	counts := make(map[string]int64, len(words))
	for w, c := range words {
		counts[w] = c
	}
	if cm.Substitution == nil {
		cm.Substitution = map[ConfusionKey]int64{}
	}
	if cm.Deletion == nil {
		cm.Deletion = map[ConfusionKey]int64{}
	}
	if cm.Insertion == nil {
		cm.Insertion = map[ConfusionKey]int64{}
	}
	if cm.Transposition == nil {
		cm.Transposition = map[ConfusionKey]int64{}
	}
	return &Snapshot{Corpus: NewFrequencyCorpus(counts), Letters: ls, Errors: cm}
}

func fixtureSnapshot() *Snapshot {
	return newSnapshot(fixtureWords, uniformLetters(1000, 1000), ConfusionModel{
		Substitution: map[ConfusionKey]int64{
			{"s", "d"}: 50,
			{"h", "j"}: 20,
			{"f", "b"}: 10,
			{"u", "o"}: 40,
		},
		Deletion: map[ConfusionKey]int64{
			{"e", "s"}: 30,
			{"u", "p"}: 15,
			{"p", "p"}: 25,
			{"t", "u"}: 12,
		},
		Insertion: map[ConfusionKey]int64{
			{"s", "o"}: 10,
			{"o", "o"}: 20,
			{"u", "p"}: 5,
			{"p", "p"}: 40,
			{"i", "l"}: 3,
			{"l", "l"}: 30,
			{"i", "e"}: 4,
			{"e", "e"}: 18,
		},
	})
}

func newTestCorrector(t *testing.T, snap *Snapshot, dict WordStore) *SpellCorrector {
	t.Helper()
	sc, err := NewSpellCorrector(context.Background(), NewConfig(), snap, dict)
	require.NoError(t, err)
	return sc
}

type memoryStore struct {
	mu    sync.Mutex
	words map[string]bool
	err   error
}

func newMemoryStore(words ...string) *memoryStore {
	ms := &memoryStore{words: map[string]bool{}}
	for _, w := range words {
		ms.words[w] = true
	}
	return ms
}

func (ms *memoryStore) Add(_ context.Context, word string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return ms.err
	}
	ms.words[word] = true
	return nil
}

func (ms *memoryStore) Remove(_ context.Context, word string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return ms.err
	}
	delete(ms.words, word)
	return nil
}

func (ms *memoryStore) All(_ context.Context) ([]string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return nil, ms.err
	}
	out := make([]string, 0, len(ms.words))
	for w := range ms.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out, nil
}
