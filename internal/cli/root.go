// Package cli implements the cyoa CLI commands.
package cli

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/cyoa/internal/config"
	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/graph"
	"github.com/rcliao/cyoa/internal/presenter"
	"github.com/rcliao/cyoa/internal/registry"
	"github.com/rcliao/cyoa/internal/store"
)

var (
	dbPath      string
	formatFlag  string
	verboseFlag bool
	seedFlag    int64

	cfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "cyoa",
	Short: "Write and read choose-your-own-adventure stories",
	Long:  "A small CLI for branching adventures. Sections, choices and media in one SQLite file.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("db") {
			c.DBPath = dbPath
		}
		if flags.Changed("format") {
			c.Format = formatFlag
		}
		if flags.Changed("verbose") {
			c.Verbose = verboseFlag
		}
		if flags.Changed("seed") {
			c.Seed = seedFlag
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $CYOA_DB or ~/.cyoa/library.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log progress to stderr")
	RootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "Seed for random choices (default: $CYOA_SEED or random)")
}

func getDBPath() string {
	if cfg != nil {
		return cfg.DBPath
	}
	if dbPath != "" {
		return dbPath
	}
	return config.DefaultDBPath()
}

func textOutput() bool {
	return cfg != nil && cfg.Format == "text"
}

func logger() *log.Logger {
	if cfg == nil {
		return (&config.Config{}).Logger(os.Stderr)
	}
	return cfg.Logger(os.Stderr)
}

func graphOpts() []graph.Option {
	if cfg == nil || cfg.Seed == 0 {
		return nil
	}
	return []graph.Option{graph.WithRand(rand.New(rand.NewSource(cfg.Seed)))}
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// session is an open store with the library loaded into a registry.
type session struct {
	store *store.SQLiteStore
	reg   *registry.Registry
	lib   *presenter.Library
	view  *changeView
}

// changeView records whether a presenter changed anything.
type changeView struct{ changed bool }

func (v *changeView) Refresh() { v.changed = true }

func openSession(cmd *cobra.Command) *session {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	reg := registry.New(graphOpts()...)
	lib := presenter.NewLibrary(s, reg, nil, logger())
	if err := lib.Load(cmd.Context()); err != nil {
		s.Close()
		exitErr("load library", err)
	}
	return &session{store: s, reg: reg, lib: lib, view: &changeView{}}
}

func (s *session) Close() {
	s.store.Close()
}

func parseID(what, arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		exitErr("parse "+what, apperrors.Newf(apperrors.CodeInvalidArgument, "invalid %s id %q", what, arg))
	}
	return id
}

func exitErr(msg string, err error) {
	if code := apperrors.GetCode(err); code != apperrors.CodeUnknown {
		fmt.Fprintf(os.Stderr, "error: %s: %s: %v\n", msg, code, err)
	} else {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	}
	os.Exit(1)
}
