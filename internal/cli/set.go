package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/cyoa/internal/presenter"
)

func init() {
	cmd := &cobra.Command{
		Use:   "set [adventure-id]",
		Short: "Change adventure settings",
		Args:  cobra.ExactArgs(1),
		Run:   runSet,
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("author", "", "New author")
	cmd.Flags().Bool("random", false, "Allow random choices while reading")
	cmd.Flags().Bool("online", false, "Mark the adventure for publishing")

	RootCmd.AddCommand(cmd)
}

func runSet(cmd *cobra.Command, args []string) {
	id := parseID("adventure", args[0])
	flags := cmd.Flags()

	s := openSession(cmd)
	defer s.Close()

	p := presenter.NewAdventure(s.reg, s.view, logger())
	if err := p.SetAdventure(id); err != nil {
		exitErr("set", err)
	}

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		if err := p.SetTitle(title); err != nil {
			exitErr("set title", err)
		}
	}
	if flags.Changed("author") {
		author, _ := flags.GetString("author")
		p.SetAuthor(author)
	}
	if flags.Changed("random") {
		random, _ := flags.GetBool("random")
		p.SetRandom(random)
	}
	if flags.Changed("online") {
		online, _ := flags.GetBool("online")
		p.SetOnline(online)
	}

	saveAdventure(cmd, s, id)
	adv, _ := s.lib.Get(id)
	printJSON(summarize(adv))
}

// saveAdventure persists an adventure edited through a presenter.
func saveAdventure(cmd *cobra.Command, s *session, id int) {
	if err := s.lib.Save(cmd.Context(), id); err != nil {
		exitErr("save", err)
	}
}
