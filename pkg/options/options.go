package options

const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz"

var DefaultOptions = CorrectorOptions{
	Alphabet:            DefaultAlphabet,
	EnableTransposition: false,
	CustomWordCount:     1_000_000_000,
	BatchConcurrency:    4,
}

type CorrectorOptions struct {
	Alphabet            string
	EnableTransposition bool
	CustomWordCount     int64 // occurrences credited to every custom dictionary word
	BatchConcurrency    int
}

type Options interface {
	Apply(options *CorrectorOptions)
}

type FuncConfig struct {
	ops func(options *CorrectorOptions)
}

func (w FuncConfig) Apply(conf *CorrectorOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *CorrectorOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

// WithAlphabet sets the letters tried when inserting or substituting.
// An empty alphabet keeps the default.
func WithAlphabet(alphabet string) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		if alphabet != "" {
			options.Alphabet = alphabet
		}
	})
}

func WithTransposition() Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.EnableTransposition = true
	})
}

func WithCustomWordCount(count int64) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		if count > 0 {
			options.CustomWordCount = count
		}
	})
}

func WithBatchConcurrency(n int) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		if n > 0 {
			options.BatchConcurrency = n
		}
	})
}
