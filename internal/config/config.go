package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"spellfix/internal/logging"
	"spellfix/internal/tables"
	"spellfix/pkg/options"
)

const (
	dfltListenAddress    = ":8080"
	dfltDataDir          = "data"
	dfltRedisAddr        = "localhost:6379"
	dfltBatchConcurrency = 4
	dfltMaxBatch         = 1000
	dfltWatchDebounce    = 500 * time.Millisecond
)

type DataConf struct {
	Dir            string        `yaml:"dir"`
	Words          string        `yaml:"words"`
	Unigrams       string        `yaml:"unigrams"`
	Bigrams        string        `yaml:"bigrams"`
	Substitutions  string        `yaml:"substitutions"`
	Deletions      string        `yaml:"deletions"`
	Insertions     string        `yaml:"insertions"`
	Transpositions string        `yaml:"transpositions"`
	SnapshotCache  string        `yaml:"snapshot_cache"`
	Watch          bool          `yaml:"watch"`
	WatchDebounce  time.Duration `yaml:"watch_debounce"`
}

// Files resolves the table locations, falling back to the standard names.
func (dc DataConf) Files() tables.Files {
	f := tables.DefaultFiles(dc.Dir)
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&f.Words, dc.Words)
	set(&f.Unigrams, dc.Unigrams)
	set(&f.Bigrams, dc.Bigrams)
	set(&f.Substitutions, dc.Substitutions)
	set(&f.Deletions, dc.Deletions)
	set(&f.Insertions, dc.Insertions)
	set(&f.Transpositions, dc.Transpositions)
	return f
}

type RedisConf struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
	Disabled bool   `yaml:"disabled"`
}

type CorrectorConf struct {
	Alphabet            string `yaml:"alphabet"`
	EnableTransposition bool   `yaml:"enable_transposition"`
	CustomWordCount     int64  `yaml:"custom_word_count"`
	BatchConcurrency    int    `yaml:"batch_concurrency"`
	MaxBatch            int    `yaml:"max_batch"`
}

// Options converts the section to corrector options.
func (cc CorrectorConf) Options() []options.Options {
	opts := []options.Options{
		options.WithAlphabet(cc.Alphabet),
		options.WithCustomWordCount(cc.CustomWordCount),
		options.WithBatchConcurrency(cc.BatchConcurrency),
	}
	if cc.EnableTransposition {
		opts = append(opts, options.WithTransposition())
	}
	return opts
}

type Conf struct {
	srcPath       string
	Logging       logging.Conf  `yaml:"logging"`
	ListenAddress string        `yaml:"listen_address"`
	Data          DataConf      `yaml:"data"`
	Redis         RedisConf     `yaml:"redis"`
	Corrector     CorrectorConf `yaml:"corrector"`
}

func (c *Conf) SrcPath() string { return c.srcPath }

// Load reads a YAML config. An empty path yields an empty config, to be
// completed by env overrides and defaults.
func Load(path string) (*Conf, error) {
	conf := &Conf{srcPath: path}
	if path == "" {
		return conf, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, conf); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return conf, nil
}

// ApplyEnv overrides values from the environment.
func ApplyEnv(conf *Conf) {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		conf.ListenAddress = v
	}
	if v := os.Getenv("SPELLFIX_DATA_DIR"); v != "" {
		conf.Data.Dir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		conf.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		conf.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			conf.Redis.DB = i
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid REDIS_DB")
		}
	}
	if v := os.Getenv("SPELLFIX_LOG_LEVEL"); v != "" {
		conf.Logging.Level = v
	}
}

func ValidateAndDefaults(conf *Conf) error {
	if conf.ListenAddress == "" {
		conf.ListenAddress = dfltListenAddress
		log.Debug().Str("address", conf.ListenAddress).Msg("listen_address not set, using default")
	}
	if conf.Data.Dir == "" {
		conf.Data.Dir = dfltDataDir
		log.Warn().Str("dir", conf.Data.Dir).Msg("data.dir not set, using default")
	}
	if conf.Data.WatchDebounce <= 0 {
		conf.Data.WatchDebounce = dfltWatchDebounce
	}
	if conf.Redis.Addr == "" {
		conf.Redis.Addr = dfltRedisAddr
	}
	if conf.Corrector.Alphabet == "" {
		conf.Corrector.Alphabet = options.DefaultAlphabet
	}
	if conf.Corrector.CustomWordCount < 0 {
		return fmt.Errorf("corrector.custom_word_count must not be negative")
	}
	if conf.Corrector.BatchConcurrency <= 0 {
		conf.Corrector.BatchConcurrency = dfltBatchConcurrency
		log.Debug().
			Int("value", dfltBatchConcurrency).
			Msg("corrector.batch_concurrency not set, using default")
	}
	if conf.Corrector.MaxBatch <= 0 {
		conf.Corrector.MaxBatch = dfltMaxBatch
	}
	return nil
}
