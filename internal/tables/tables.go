// Package tables reads the frequency and confusion tables a corrector
// snapshot is built from.
package tables

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"spellfix/internal/corrector"
)

var (
	ErrMalformedRow = errors.New("malformed row")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Files names the data files inside Dir. Transpositions is optional.
type Files struct {
	Dir            string
	Words          string
	Unigrams       string
	Bigrams        string
	Substitutions  string
	Deletions      string
	Insertions     string
	Transpositions string
}

func DefaultFiles(dir string) Files {
	return Files{
		Dir:            dir,
		Words:          "count_1w.txt",
		Unigrams:       "unigrams.csv",
		Bigrams:        "bigrams.csv",
		Substitutions:  "substitutions.csv",
		Deletions:      "deletions.csv",
		Insertions:     "additions.csv",
		Transpositions: "transpositions.csv",
	}
}

func (f Files) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.Dir, name)
}

// Paths lists every configured file, used to filter watcher events.
func (f Files) Paths() []string {
	out := []string{
		f.path(f.Words), f.path(f.Unigrams), f.path(f.Bigrams),
		f.path(f.Substitutions), f.path(f.Deletions), f.path(f.Insertions),
	}
	if f.Transpositions != "" {
		out = append(out, f.path(f.Transpositions))
	}
	return out
}

// Load reads all tables concurrently and returns a validated snapshot.
func Load(ctx context.Context, files Files) (*corrector.Snapshot, error) {
	t0 := time.Now()
	var (
		words                      map[string]int64
		unigrams, bigrams          map[string]int64
		subs, dels, ins, transpose map[corrector.ConfusionKey]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		words, err = ReadWordCounts(gctx, files.path(files.Words))
		return
	})
	g.Go(func() (err error) {
		unigrams, err = readCountTable(gctx, files.path(files.Unigrams))
		return
	})
	g.Go(func() (err error) {
		bigrams, err = readCountTable(gctx, files.path(files.Bigrams))
		return
	})
	g.Go(func() (err error) {
		subs, err = readConfusionTable(gctx, files.path(files.Substitutions))
		return
	})
	g.Go(func() (err error) {
		dels, err = readConfusionTable(gctx, files.path(files.Deletions))
		return
	})
	g.Go(func() (err error) {
		ins, err = readConfusionTable(gctx, files.path(files.Insertions))
		return
	})
	g.Go(func() (err error) {
		transpose, err = readOptionalConfusionTable(gctx, files)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &corrector.Snapshot{
		Corpus: corrector.NewFrequencyCorpus(words),
		Letters: corrector.LetterStatistics{
			Unigram: unigrams,
			Bigram:  bigrams,
		},
		Errors: corrector.ConfusionModel{
			Substitution:  subs,
			Deletion:      dels,
			Insertion:     ins,
			Transposition: transpose,
		},
		LoadedAt: time.Now(),
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", files.path(files.Words), err)
	}
	log.Info().
		Int("words", snap.Corpus.Size()).
		Int64("total", snap.Corpus.Total()).
		Int("unigrams", len(unigrams)).
		Int("bigrams", len(bigrams)).
		Int("substitutions", len(subs)).
		Int("deletions", len(dels)).
		Int("insertions", len(ins)).
		Int("transpositions", len(transpose)).
		Dur("took", time.Since(t0)).
		Msg("loaded correction tables")
	return snap, nil
}

func readOptionalConfusionTable(ctx context.Context, files Files) (map[corrector.ConfusionKey]int64, error) {
	if files.Transpositions == "" {
		return map[corrector.ConfusionKey]int64{}, nil
	}
	path := files.path(files.Transpositions)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", path).Msg("no transposition table, continuing without it")
		return map[corrector.ConfusionKey]int64{}, nil
	}
	return readConfusionTable(ctx, path)
}
