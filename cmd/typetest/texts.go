package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/store"
)

// passageDoc is one entry of a passage import file.
type passageDoc struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

func newTextsCmd(flags *practiceFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "texts",
		Short: "Manage the custom passage library",
	}
	cmd.AddCommand(newTextsAddCmd(flags))
	cmd.AddCommand(newTextsImportCmd(flags))
	cmd.AddCommand(newTextsListCmd(flags))
	cmd.AddCommand(newTextsRmCmd(flags))
	return cmd
}

func newTextsAddCmd(flags *practiceFlags) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add a text file as a passage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, flags, func(ctx context.Context, st *store.Store) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return errors.Wrap(err, "failed to read passage file")
				}
				id, err := st.AddPassage(ctx, title, string(data))
				if err != nil {
					return err
				}
				log.Info().Int64("id", id).Str("file", args[0]).Msg("passage added")
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added passage %d\n", id)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "passage title (default: first line)")
	return cmd
}

func newTextsImportCmd(flags *practiceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <yaml>",
		Short: "Import passages from a YAML list of {title, body}",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, flags, func(ctx context.Context, st *store.Store) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return errors.Wrap(err, "failed to read import file")
				}
				passages, err := parsePassages(data)
				if err != nil {
					return err
				}
				ids, err := st.AddPassages(ctx, passages)
				if err != nil {
					return err
				}
				log.Info().Int("count", len(ids)).Str("file", args[0]).Msg("passages imported")
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d passages\n", len(ids))
				return err
			})
		},
	}
}

func newTextsListCmd(flags *practiceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored passages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, flags, func(ctx context.Context, st *store.Store) error {
				passages, err := st.ListPassages(ctx)
				if err != nil {
					return err
				}
				if len(passages) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "No passages. Add one with: typetest texts add <file>")
					return err
				}
				return stats.RenderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Chars", "Added"},
					passageRows(passages), map[int]bool{0: true, 2: true})
			})
		},
	}
}

func newTextsRmCmd(flags *practiceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a passage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid passage id %q", args[0])
			}
			return withStore(cmd, flags, func(ctx context.Context, st *store.Store) error {
				if err := st.DeletePassage(ctx, id); err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return errors.Errorf("no passage with id %d", id)
					}
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed passage %d\n", id)
				return err
			})
		},
	}
}

// withStore sets up console logging and an open passage library for fn.
func withStore(cmd *cobra.Command, flags *practiceFlags, fn func(context.Context, *store.Store) error) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	flags.mergeLog(cmd, fileCfg.Log)
	closeLog, err := setupLogging(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return errors.Wrap(err, "failed to open db")
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close db")
		}
	}()
	return fn(cmd.Context(), st)
}

func parsePassages(data []byte) ([]model.Passage, error) {
	var docs []passageDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to decode passages")
	}
	if len(docs) == 0 {
		return nil, errors.New("import file has no passages")
	}
	passages := make([]model.Passage, 0, len(docs))
	for _, doc := range docs {
		passages = append(passages, model.Passage{Title: doc.Title, Body: doc.Body})
	}
	return passages, nil
}

func passageRows(passages []model.Passage) [][]string {
	rows := make([][]string, 0, len(passages))
	for _, p := range passages {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Title,
			strconv.Itoa(utf8.RuneCountInString(p.Body)),
			p.CreatedAt.Local().Format("2006-01-02"),
		})
	}
	return rows
}
