package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/presenter"
)

func init() {
	cmd := &cobra.Command{
		Use:   "choice",
		Short: "Add and remove choices",
	}

	add := &cobra.Command{
		Use:   "add [adventure-id] [section-id]",
		Short: "Add a choice from a section",
		Long:  "Add a choice from a section. Without --to, or when --to names no section, a new section titled --title is created as the target.",
		Args:  cobra.ExactArgs(2),
		Run:   runChoiceAdd,
	}
	add.Flags().Int("to", 0, "Target section id")
	add.Flags().String("title", "", "Title for a newly created target section")
	add.Flags().StringP("decision", "m", "", "Decision text shown to the reader (required)")
	add.MarkFlagRequired("decision")

	rm := &cobra.Command{
		Use:   "rm [adventure-id] [section-id] [index]",
		Short: "Remove the index-th choice of a section",
		Args:  cobra.ExactArgs(3),
		Run:   runChoiceRm,
	}

	cmd.AddCommand(add, rm)
	RootCmd.AddCommand(cmd)
}

// openSectionEditor positions a section presenter on an existing section.
// The returned func puts the reading position back where it was.
func openSectionEditor(s *session, advID, sectionID int) (*presenter.Section, func()) {
	adv, err := s.lib.Get(advID)
	if err != nil {
		exitErr("open adventure", err)
	}
	if adv.SectionByID(sectionID) == nil {
		exitErr("open section", apperrors.NotFound("section", sectionID))
	}
	prev := adv.CurrentSectionID

	p := presenter.NewSection(s.reg, s.view, logger())
	if err := p.SetAdventure(advID); err != nil {
		exitErr("open adventure", err)
	}
	if _, err := p.SetCurrentSectionByID(sectionID, true); err != nil {
		exitErr("open section", err)
	}
	return p, func() { adv.CurrentSectionID = prev }
}

func runChoiceAdd(cmd *cobra.Command, args []string) {
	advID := parseID("adventure", args[0])
	sectionID := parseID("section", args[1])
	to, _ := cmd.Flags().GetInt("to")
	title, _ := cmd.Flags().GetString("title")
	decision, _ := cmd.Flags().GetString("decision")

	s := openSession(cmd)
	defer s.Close()

	p, restore := openSectionEditor(s, advID, sectionID)
	c, err := p.AddSectionChoice(to, decision, title)
	if err != nil {
		exitErr("choice add", err)
	}
	restore()
	saveAdventure(cmd, s, advID)

	printJSON(c)
}

func runChoiceRm(cmd *cobra.Command, args []string) {
	advID := parseID("adventure", args[0])
	sectionID := parseID("section", args[1])
	index, err := strconv.Atoi(args[2])
	if err != nil {
		exitErr("parse index", apperrors.Newf(apperrors.CodeInvalidArgument, "invalid index %q", args[2]))
	}

	s := openSession(cmd)
	defer s.Close()

	p, restore := openSectionEditor(s, advID, sectionID)
	if err := p.RemoveSectionChoice(index); err != nil {
		exitErr("choice rm", err)
	}
	remaining := len(p.Choices())
	restore()
	saveAdventure(cmd, s, advID)

	fmt.Printf(`{"ok":true,"removed":%d,"remaining":%d}`+"\n", index, remaining)
}
