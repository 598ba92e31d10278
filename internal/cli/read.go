package cli

import (
	"github.com/spf13/cobra"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/presenter"
)

func init() {
	cmd := &cobra.Command{
		Use:   "read [adventure-id]",
		Short: "Read an adventure",
		Long: `Read an adventure one section at a time. Without flags the current section
is shown. The reading position is saved between runs.`,
		Args: cobra.ExactArgs(1),
		Run:  runRead,
	}

	cmd.Flags().IntP("choose", "c", -1, "Follow the choice at this index")
	cmd.Flags().BoolP("random", "r", false, "Follow a random choice (if the adventure allows it)")
	cmd.Flags().Bool("restart", false, "Go back to the start section")
	cmd.Flags().Int("goto", 0, "Jump to a section by id")

	RootCmd.AddCommand(cmd)
}

func runRead(cmd *cobra.Command, args []string) {
	advID := parseID("adventure", args[0])
	choose, _ := cmd.Flags().GetInt("choose")
	random, _ := cmd.Flags().GetBool("random")
	restart, _ := cmd.Flags().GetBool("restart")
	gotoID, _ := cmd.Flags().GetInt("goto")

	s := openSession(cmd)
	defer s.Close()

	p := presenter.NewSection(s.reg, s.view, logger())
	if err := p.SetAdventure(advID); err != nil {
		exitErr("read", err)
	}
	// Opening the adventure may only fill in an unset position.
	s.view.changed = false

	switch {
	case restart:
		if _, err := p.Restart(); err != nil {
			exitErr("restart", err)
		}
	case gotoID > 0:
		adv, _ := s.lib.Get(advID)
		if adv.SectionByID(gotoID) == nil {
			exitErr("goto", apperrors.NotFound("section", gotoID))
		}
		if _, err := p.SetCurrentSectionByID(gotoID, true); err != nil {
			exitErr("goto", err)
		}
	}

	if choose >= 0 {
		if _, err := p.NextByIndex(choose); err != nil {
			exitErr("choose", err)
		}
	} else if random {
		if _, err := p.Random(); err != nil {
			exitErr("random", err)
		}
	}

	if s.view.changed {
		saveAdventure(cmd, s, advID)
	}

	printSection(sectionView{
		AdventureID: p.AdventureID(),
		SectionID:   p.SectionID(),
		Title:       p.SectionTitle(),
		Media:       viewMedia(p.Media()),
		Choices:     p.ChoiceDescriptions(),
		Last:        p.AtLastSection(),
		Random:      p.IsRandomSet(),
	})
}
