// Package snapcache stores a compiled correction snapshot in a single
// binary file so a service can start without parsing the text tables.
package snapcache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/edsrzf/mmap-go"
	"github.com/vmihailenco/msgpack/v5"

	"spellfix/internal/corrector"
)

var magic = []byte("SPFX1\n")

var ErrBadMagic = errors.New("not a snapshot cache file")

type confusionRow struct {
	Context string `msgpack:"x"`
	Char    string `msgpack:"c"`
	Count   int64  `msgpack:"n"`
}

type payload struct {
	Words          map[string]int64 `msgpack:"words"`
	Unigrams       map[string]int64 `msgpack:"unigrams"`
	Bigrams        map[string]int64 `msgpack:"bigrams"`
	Substitutions  []confusionRow   `msgpack:"substitutions"`
	Deletions      []confusionRow   `msgpack:"deletions"`
	Insertions     []confusionRow   `msgpack:"insertions"`
	Transpositions []confusionRow   `msgpack:"transpositions"`
	CompiledAt     time.Time        `msgpack:"compiledAt"`
}

func toRows(m map[corrector.ConfusionKey]int64) []confusionRow {
	out := make([]confusionRow, 0, len(m))
	for k, v := range m {
		out = append(out, confusionRow{Context: k.Context, Char: k.Char, Count: v})
	}
	return out
}

func fromRows(rows []confusionRow) map[corrector.ConfusionKey]int64 {
	out := make(map[corrector.ConfusionKey]int64, len(rows))
	for _, r := range rows {
		out[corrector.ConfusionKey{Context: r.Context, Char: r.Char}] = r.Count
	}
	return out
}

// Write serializes snap to path, replacing any previous file atomically.
func Write(path string, snap *corrector.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	p := payload{
		Words:          make(map[string]int64, snap.Corpus.Size()),
		Unigrams:       snap.Letters.Unigram,
		Bigrams:        snap.Letters.Bigram,
		Substitutions:  toRows(snap.Errors.Substitution),
		Deletions:      toRows(snap.Errors.Deletion),
		Insertions:     toRows(snap.Errors.Insertion),
		Transpositions: toRows(snap.Errors.Transposition),
		CompiledAt:     time.Now(),
	}
	snap.Corpus.Each(func(w string, c int64) { p.Words[w] = c })

	data, err := msgpack.Marshal(&p)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(magic); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Read loads a snapshot written by Write.
func Read(path string) (*corrector.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat snapshot: %w", err)
	}
	if st.Size() < int64(len(magic)) {
		return nil, fmt.Errorf("%s: %w", path, ErrBadMagic)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to map snapshot: %w", err)
	}
	defer data.Unmap()
	if !bytes.HasPrefix(data, magic) {
		return nil, fmt.Errorf("%s: %w", path, ErrBadMagic)
	}
	var p payload
	if err := msgpack.Unmarshal(data[len(magic):], &p); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	snap := &corrector.Snapshot{
		Corpus: corrector.NewFrequencyCorpus(p.Words),
		Letters: corrector.LetterStatistics{
			Unigram: p.Unigrams,
			Bigram:  p.Bigrams,
		},
		Errors: corrector.ConfusionModel{
			Substitution:  fromRows(p.Substitutions),
			Deletion:      fromRows(p.Deletions),
			Insertion:     fromRows(p.Insertions),
			Transposition: fromRows(p.Transpositions),
		},
		LoadedAt: p.CompiledAt,
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
