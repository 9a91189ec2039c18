package corrector

import "spellfix/pkg/options"

type CorrectorConfig struct {
	Alphabet            []rune
	EnableTransposition bool
	CustomWordCount     int64
	BatchConcurrency    int
}

func NewConfig(opts ...options.Options) CorrectorConfig {
	o := options.DefaultOptions
	for _, opt := range opts {
		opt.Apply(&o)
	}
	return CorrectorConfig{
		Alphabet:            []rune(o.Alphabet),
		EnableTransposition: o.EnableTransposition,
		CustomWordCount:     o.CustomWordCount,
		BatchConcurrency:    o.BatchConcurrency,
	}
}

const (
	ReasonEmptyInput   = "empty_input"
	ReasonNoCandidates = "no_candidates"
)

type Candidate struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// Correction is the outcome of correcting one token. Candidates are ordered
// best first; Corrected equals Candidates[0].Word unless Degraded.
type Correction struct {
	Original   string       `json:"original"`
	Corrected  string       `json:"corrected"`
	Score      float64      `json:"score"`
	Degraded   bool         `json:"degraded"`
	Reason     string       `json:"reason,omitempty"`
	Skipped    int          `json:"skipped"`
	Candidates []Candidate  `json:"candidates"`
	Hypotheses []Hypothesis `json:"-"`
}
