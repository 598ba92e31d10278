package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/cyoa/internal/model"
	"github.com/rcliao/cyoa/internal/storyfile"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-import a story file every time it changes",
		Long: `Import a YAML story file, then keep watching it and re-import on every save
until interrupted. Every re-import replaces the same adventure.`,
		Args: cobra.ExactArgs(1),
		Run:  runWatch,
	}

	RootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	path := args[0]
	log := logger()

	adv, err := storyfile.Import(path)
	if err != nil {
		exitErr("import", err)
	}

	s := openSession(cmd)
	defer s.Close()

	adv = s.lib.Import(adv, true)
	saveAdventure(cmd, s, adv.ID)
	id := adv.ID
	printJSON(summarize(adv))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = storyfile.Watch(ctx, storyfile.WatchConfig{
		Path:     path,
		Debounce: cfg.WatchDebounce,
		Logger:   log,
		OnChange: func(a *model.Adventure) {
			a.ID = id
			a = s.lib.Import(a, true)
			if err := s.lib.Save(context.Background(), a.ID); err != nil {
				log.Printf("save adventure %d: %v", a.ID, err)
				return
			}
			printJSON(summarize(a))
		},
	})
	if err != nil {
		exitErr("watch", err)
	}
}
