package corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sumCounts(fc *FrequencyCorpus) int64 {
	var s int64
	fc.Each(func(_ string, c int64) { s += c })
	return s
}

func TestFrequencyCorpus(t *testing.T) {
	fc := NewFrequencyCorpus(map[string]int64{"a": 1, "b": 3})
	assert.Equal(t, int64(4), fc.Total())
	assert.Equal(t, 0.75, fc.Probability("b"))
	assert.Zero(t, fc.Probability("c"))
	assert.False(t, fc.Known("c"))
	assert.Equal(t, 2, fc.Size())

	empty := NewFrequencyCorpus(map[string]int64{})
	assert.Zero(t, empty.Probability("a"))
}

func TestFrequencyCorpusExtend(t *testing.T) {
	base := NewFrequencyCorpus(map[string]int64{"a": 1, "b": 3})
	ext := base.Extend(map[string]int64{"b": 10, "c": 6})

	assert.Equal(t, int64(17), ext.Total())
	assert.Equal(t, sumCounts(ext), ext.Total())
	assert.Equal(t, 3, ext.Size())
	assert.Equal(t, int64(10), ext.Count("b"))
	assert.True(t, ext.Known("c"))

	// the base is untouched
	assert.Equal(t, int64(4), base.Total())
	assert.False(t, base.Known("c"))

	again := ext.Extend(map[string]int64{"c": 1})
	assert.Equal(t, int64(12), again.Total())
	assert.Equal(t, sumCounts(again), again.Total())
	assert.Same(t, base, base.Extend(nil))
}

func TestLetterStatistics(t *testing.T) {
	ls := LetterStatistics{
		Unigram: map[string]int64{"a": 5, "b": 0},
		Bigram:  map[string]int64{"ab": 2},
	}
	c, err := ls.unigram("a")
	assert.NoError(t, err)
	assert.Equal(t, int64(5), c)
	_, err = ls.unigram("b")
	assert.ErrorIs(t, err, ErrUnknownLetterStatistic)

	c, err = ls.pair("a", "b")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), c)
	_, err = ls.pair("b", "a")
	assert.ErrorIs(t, err, ErrUnknownLetterStatistic)

	c, err = ls.pair(StartOfWord, "a")
	assert.NoError(t, err)
	assert.Equal(t, int64(5), c)
}
