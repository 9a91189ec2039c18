package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"spellfix/internal/bootstrap"
	"spellfix/internal/config"
	"spellfix/internal/corrector"
	"spellfix/internal/snapcache"
	"spellfix/internal/tables"
)

var (
	version   string
	buildDate string
	gitCommit string
)

func main() {
	var confPath string
	var conf *config.Conf

	root := &cobra.Command{
		Use:           "spellfix",
		Short:         "noisy-channel single word spelling correction",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			conf, err = bootstrap.Setup(confPath)
			return err
		},
	}
	root.PersistentFlags().StringVarP(&confPath, "config", "c", os.Getenv("SPELLFIX_CONFIG"), "path to a YAML config file")

	root.AddCommand(
		correctCmd(&conf),
		compileCmd(&conf),
		serveCmd(&conf),
		wordsCmd(&conf),
		versionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func correctCmd(conf **config.Conf) *cobra.Command {
	var verbose, noCustom bool
	cmd := &cobra.Command{
		Use:   "correct WORD...",
		Short: "print the most probable intended word for each argument",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, cleanup, err := bootstrap.NewCorrector(cmd.Context(), correctConf(*conf, noCustom))
			if err != nil {
				return err
			}
			defer cleanup()
			results, err := sc.CorrectBatch(cmd.Context(), args)
			if err != nil {
				return err
			}
			for _, res := range results {
				printCorrection(res, verbose)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list all scored candidates")
	cmd.Flags().BoolVar(&noCustom, "no-custom", false, "ignore the custom dictionary and skip connecting to redis")
	return cmd
}

// correctConf returns the config the correct command runs with, leaving
// conf untouched.
func correctConf(conf *config.Conf, noCustom bool) *config.Conf {
	c := *conf
	if noCustom {
		c.Redis.Disabled = true
	}
	return &c
}

func printCorrection(res corrector.Correction, verbose bool) {
	switch {
	case res.Degraded:
		fmt.Printf("%s\t%s\n", res.Original, color.YellowString("%s (%s)", res.Corrected, res.Reason))
	case res.Corrected != res.Original:
		fmt.Printf("%s\t%s\n", res.Original, color.GreenString("%s", res.Corrected))
	default:
		fmt.Printf("%s\t%s\n", res.Original, res.Corrected)
	}
	if verbose {
		for _, c := range res.Candidates {
			fmt.Printf("\t%-20s %.6e\n", c.Word, c.Score)
		}
		if res.Skipped > 0 {
			fmt.Printf("\t(%d hypotheses skipped for missing letter statistics)\n", res.Skipped)
		}
	}
}

func compileCmd(conf **config.Conf) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "parse the text tables and write a binary snapshot cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *conf
			if out == "" {
				out = c.Data.SnapshotCache
			}
			if out == "" {
				return fmt.Errorf("no output file, use --out or data.snapshot_cache")
			}
			snap, err := tables.Load(cmd.Context(), c.Data.Files())
			if err != nil {
				return err
			}
			if err := snapcache.Write(out, snap); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d words)\n", out, snap.Corpus.Size())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "snapshot cache file")
	return cmd
}

func serveCmd(conf **config.Conf) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return bootstrap.Serve(ctx, *conf)
		},
	}
}

func wordsCmd(conf **config.Conf) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "manage the custom dictionary",
	}
	withDict := func(ctx context.Context, fn func(ctx context.Context, d corrector.WordStore) error) error {
		c := *conf
		if c.Redis.Disabled {
			return fmt.Errorf("custom dictionary requires redis")
		}
		dict, cleanup, err := bootstrap.NewCustomDict(ctx, c.Redis)
		if err != nil {
			return err
		}
		defer cleanup()
		return fn(ctx, dict)
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add WORD...",
			Short: "add words to the custom dictionary",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDict(cmd.Context(), func(ctx context.Context, d corrector.WordStore) error {
					for _, w := range args {
						if err := d.Add(ctx, w); err != nil {
							return err
						}
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove WORD...",
			Short: "remove words from the custom dictionary",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDict(cmd.Context(), func(ctx context.Context, d corrector.WordStore) error {
					for _, w := range args {
						if err := d.Remove(ctx, w); err != nil {
							return err
						}
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "list the custom dictionary",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDict(cmd.Context(), func(ctx context.Context, d corrector.WordStore) error {
					words, err := d.All(ctx)
					if err != nil {
						return err
					}
					for _, w := range words {
						fmt.Println(w)
					}
					return nil
				})
			},
		},
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "show version info",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("spellfix %s (built %s, commit %s)\n", version, buildDate, gitCommit)
		},
	}
}
