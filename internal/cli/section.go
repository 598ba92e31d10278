package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/cyoa/internal/presenter"
)

func init() {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Add, remove and rename sections",
	}

	add := &cobra.Command{
		Use:   "add [adventure-id] [name]",
		Short: "Add an empty section",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSectionAdd,
	}
	rm := &cobra.Command{
		Use:   "rm [adventure-id] [section-id]",
		Short: "Remove a section and every choice leading to it",
		Args:  cobra.ExactArgs(2),
		Run:   runSectionRm,
	}
	rename := &cobra.Command{
		Use:   "rename [adventure-id] [section-id] [name]",
		Short: "Rename a section",
		Args:  cobra.MinimumNArgs(3),
		Run:   runSectionRename,
	}
	list := &cobra.Command{
		Use:   "list [adventure-id]",
		Short: "List section titles",
		Args:  cobra.ExactArgs(1),
		Run:   runSectionList,
	}

	cmd.AddCommand(add, rm, rename, list)
	RootCmd.AddCommand(cmd)
}

func openAdventureEditor(s *session, id int) *presenter.Adventure {
	p := presenter.NewAdventure(s.reg, s.view, logger())
	if err := p.SetAdventure(id); err != nil {
		exitErr("open adventure", err)
	}
	return p
}

func runSectionAdd(cmd *cobra.Command, args []string) {
	id := parseID("adventure", args[0])

	s := openSession(cmd)
	defer s.Close()

	p := openAdventureEditor(s, id)
	sec, err := p.NewSection(strings.Join(args[1:], " "))
	if err != nil {
		exitErr("section add", err)
	}
	saveAdventure(cmd, s, id)

	printJSON(sec.Ref())
}

func runSectionRm(cmd *cobra.Command, args []string) {
	id := parseID("adventure", args[0])
	sectionID := parseID("section", args[1])

	s := openSession(cmd)
	defer s.Close()

	p := openAdventureEditor(s, id)
	if err := p.DeleteSection(sectionID); err != nil {
		exitErr("section rm", err)
	}
	saveAdventure(cmd, s, id)

	fmt.Printf(`{"ok":true,"deleted":%d}`+"\n", sectionID)
}

func runSectionRename(cmd *cobra.Command, args []string) {
	id := parseID("adventure", args[0])
	sectionID := parseID("section", args[1])

	s := openSession(cmd)
	defer s.Close()

	p := openAdventureEditor(s, id)
	if err := p.RenameSection(sectionID, strings.Join(args[2:], " ")); err != nil {
		exitErr("section rename", err)
	}
	saveAdventure(cmd, s, id)

	fmt.Printf(`{"ok":true,"renamed":%d}`+"\n", sectionID)
}

func runSectionList(cmd *cobra.Command, args []string) {
	id := parseID("adventure", args[0])

	s := openSession(cmd)
	defer s.Close()

	p := openAdventureEditor(s, id)
	titles := p.SectionTitles()
	if !textOutput() {
		printJSON(titles)
		return
	}
	for _, t := range titles {
		fmt.Printf("[%d] %s\n", t.ID, t.Title)
	}
}
