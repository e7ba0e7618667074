package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/wordlist"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "failed to open editor")
	}
	return nil
}

// ensureConfigFile writes the commented template unless path exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to stat config")
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List installed word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	dir := config.DefaultWordListDir()
	langs, err := wordlist.Installed(dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	builtin := true
	for _, lang := range langs {
		if lang == wordlist.DefaultLang {
			builtin = false
		}
		if _, err := fmt.Fprintln(out, lang); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}
	if builtin {
		if _, err := fmt.Fprintf(out, "%s (built-in)\n", wordlist.DefaultLang); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}
	if len(langs) == 0 {
		logErrf("Install more word lists as %s\n", filepath.Join(dir, "<lang>.txt"))
	}
	return nil
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List practice modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := make([][]string, 0, len(model.Modes))
			for _, info := range model.Modes {
				rows = append(rows, []string{string(info.Mode), info.Description})
			}
			return stats.RenderTable(cmd.OutOrStdout(), []string{"Mode", "Description"}, rows, nil)
		},
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetest configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q          # classic, endless, precision, blind, code, custom
# time = %d                # Time limit in seconds: 30, 60, 120, 300
# source = %q        # Prose text source: samples or words
# lang = %q               # Word list language for source = "words"
# words = %d               # Words per generated text
# caps = %.2f              # Probability of capitalized first letter (0-1)
# punct = %.2f             # Punctuation probability per word (0-1)
# punct-set = %q
# text-file = ""            # Fixed text for custom mode
# sound = true              # Keypress click on the terminal bell
# result = %q           # Print the last result on exit: none, text, yaml

[log]
# level = %q            # debug, info, warn, error
# file = %q
`,
		model.ModeClassic,
		int(model.DefaultTimeLimit.Seconds()),
		model.SourceSamples,
		defaultLang,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		stats.FormatNone,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}
