// Package main provides the CLI entrypoint for typetest.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/logging"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/sound"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/store"
	"github.com/verte-zerg/typetest/internal/texts"
	"github.com/verte-zerg/typetest/internal/tui"
	"github.com/verte-zerg/typetest/internal/wordlist"
)

const (
	defaultLang     = wordlist.DefaultLang
	defaultWords    = 25
	defaultCaps     = 0.5
	defaultPunct    = 0.5
	defaultLogLevel = "info"
)

const defaultPunctSet = ".,!?;:\"'{}()[]-=/<>`"

// practiceFlags holds the root command flags before config merging.
type practiceFlags struct {
	mode     string
	time     int
	source   string
	lang     string
	words    int
	caps     float64
	punct    float64
	punctSet string
	textFile string
	sound    bool
	result   string
	logLevel string
	logFile  string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &practiceFlags{}
	rootCmd := &cobra.Command{
		Use:           "typetest",
		Short:         "Terminal typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPracticeCmd(cmd, flags)
		},
	}

	bindPracticeFlags(rootCmd, flags)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newModesCmd())
	rootCmd.AddCommand(newTextsCmd(flags))

	return rootCmd
}

func bindPracticeFlags(cmd *cobra.Command, flags *practiceFlags) {
	cmd.Flags().StringVar(&flags.mode, "mode", string(model.ModeClassic), "practice mode (see: typetest modes)")
	cmd.Flags().IntVar(&flags.time, "time", int(model.DefaultTimeLimit.Seconds()), "time limit in seconds (30, 60, 120, 300)")
	cmd.Flags().StringVar(&flags.source, "source", string(model.SourceSamples), "text source for prose modes (samples, words)")
	cmd.Flags().StringVar(&flags.lang, "lang", defaultLang, "word list language for --source words")
	cmd.Flags().IntVar(&flags.words, "words", defaultWords, "words per generated text")
	cmd.Flags().Float64Var(&flags.caps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	cmd.Flags().Float64Var(&flags.punct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	cmd.Flags().StringVar(&flags.punctSet, "punct-set", defaultPunctSet, "punctuation set")
	cmd.Flags().StringVar(&flags.textFile, "text-file", "", "text file to practice in custom mode")
	cmd.Flags().BoolVar(&flags.sound, "sound", true, "play a keypress click on the terminal bell")
	cmd.Flags().StringVar(&flags.result, "result", stats.FormatNone, "print the last result on exit (none, text, yaml)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
}

func runPracticeCmd(cmd *cobra.Command, flags *practiceFlags) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	flags.merge(cmd, fileCfg)
	cfg, err := flags.toConfig()
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(flags, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := []texts.Option{texts.WithGenerator(generator.New())}
	if cfg.Source == model.SourceWords {
		path := config.DefaultWordListPath(cfg.Lang)
		words, err := wordlist.Load(cfg.Lang, path)
		if err != nil {
			return wordListLoadError(cfg.Lang, path, err)
		}
		opts = append(opts, texts.WithWords(words))
	}
	if cfg.TextFile != "" {
		text, err := texts.LoadCustomText(cfg.TextFile)
		if err != nil {
			return err
		}
		opts = append(opts, texts.WithCustomText(text))
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		log.Warn().Err(err).Msg("passage library unavailable; custom mode uses the default prompt")
	} else {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				log.Warn().Err(cerr).Msg("failed to close db")
			}
		}()
		opts = append(opts, texts.WithPassages(st))
	}

	clicker := sound.New(sound.Terminal(), sound.DefaultBuffer)
	defer func() {
		if cerr := clicker.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("failed to stop keypress sound")
		}
	}()

	m, err := tui.NewModel(tui.Options{
		Config:  cfg,
		Texts:   texts.NewProvider(cfg, opts...),
		Clicker: clicker,
	})
	if err != nil {
		return errors.Wrap(err, "failed to prepare session")
	}
	log.Info().Str("mode", string(cfg.Mode)).Dur("limit", cfg.TimeLimit).Msg("starting practice")
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return errors.Wrap(err, "failed to run TUI")
	}

	snap, ok := m.Result()
	if !ok || flags.result == stats.FormatNone {
		return nil
	}
	return stats.RenderResult(cmd.OutOrStdout(), snap, flags.result)
}

// merge fills flags the user did not set from the config file.
func (f *practiceFlags) merge(cmd *cobra.Command, fileCfg config.FileConfig) {
	p := fileCfg.Practice
	applyStringConfig(cmd, "mode", &f.mode, p.Mode)
	applyIntConfig(cmd, "time", &f.time, p.Time)
	applyStringConfig(cmd, "source", &f.source, p.Source)
	applyStringConfig(cmd, "lang", &f.lang, p.Lang)
	applyIntConfig(cmd, "words", &f.words, p.Words)
	applyFloatConfig(cmd, "caps", &f.caps, p.CapsPct)
	applyFloatConfig(cmd, "punct", &f.punct, p.PunctPct)
	applyStringConfig(cmd, "punct-set", &f.punctSet, p.PunctSet)
	applyStringConfig(cmd, "text-file", &f.textFile, p.TextFile)
	applyBoolConfig(cmd, "sound", &f.sound, p.Sound)
	applyStringConfig(cmd, "result", &f.result, p.Result)
	f.mergeLog(cmd, fileCfg.Log)
}

func (f *practiceFlags) mergeLog(cmd *cobra.Command, logCfg config.LogConfig) {
	applyStringConfig(cmd, "log-level", &f.logLevel, logCfg.Level)
	if logCfg.File != nil {
		f.logFile = *logCfg.File
	}
}

// toConfig validates the merged flags.
func (f *practiceFlags) toConfig() (model.Config, error) {
	mode, err := model.ParseMode(f.mode)
	if err != nil {
		return model.Config{}, errors.Wrap(err, "invalid --mode")
	}
	limit, err := parseTimeLimit(f.time)
	if err != nil {
		return model.Config{}, err
	}
	source := model.Source(strings.ToLower(strings.TrimSpace(f.source)))
	if source != model.SourceSamples && source != model.SourceWords {
		return model.Config{}, errors.Errorf("--source must be %q or %q", model.SourceSamples, model.SourceWords)
	}
	switch f.result {
	case stats.FormatNone, stats.FormatText, stats.FormatYAML:
	default:
		return model.Config{}, errors.Errorf("--result must be one of %s, %s, %s", stats.FormatNone, stats.FormatText, stats.FormatYAML)
	}
	cfg := model.Config{
		Mode:      mode,
		TimeLimit: limit,
		Source:    source,
		Lang:      strings.ToLower(strings.TrimSpace(f.lang)),
		Words:     f.words,
		CapsPct:   f.caps,
		PunctPct:  f.punct,
		PunctSet:  f.punctSet,
		TextFile:  f.textFile,
		Sound:     f.sound,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func parseTimeLimit(seconds int) (time.Duration, error) {
	limit := time.Duration(seconds) * time.Second
	for _, allowed := range model.TimeLimits {
		if limit == allowed {
			return limit, nil
		}
	}
	return 0, errors.Errorf("--time must be one of 30, 60, 120, 300 (got %d)", seconds)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return errors.New("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return errors.New("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return errors.New("--punct must be between 0 and 1")
	}
	if cfg.PunctSet == "" {
		return errors.New("--punct-set must not be empty")
	}
	if cfg.Lang == "" {
		return errors.New("--lang must not be empty")
	}
	return nil
}

// setupLogging installs the logger from merged flags. A nil console logs to
// the file only.
func setupLogging(flags *practiceFlags, console io.Writer) (func(), error) {
	file := flags.logFile
	if file == "" {
		file = config.DefaultLogPath()
	}
	closer, err := logging.Setup(logging.Options{Level: flags.logLevel, File: file, Console: console})
	if err != nil {
		return nil, errors.Wrap(err, "failed to set up logging")
	}
	return func() {
		if cerr := closer.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		"Run: typetest langs",
		fmt.Sprintf("Or install one word per line into %s", path),
	}
	if lang != defaultLang {
		lines = append(lines, fmt.Sprintf("Or use the built-in list: typetest --source words --lang %s", defaultLang))
	}
	return errors.New(strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
