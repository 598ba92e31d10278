package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show [adventure-id]",
		Short: "Show an adventure with all its sections",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	id := parseID("adventure", args[0])

	s := openSession(cmd)
	defer s.Close()

	g, err := s.reg.Graph(id)
	if err != nil {
		exitErr("show", err)
	}
	adv := g.Adventure()

	if !textOutput() {
		printJSON(adv)
		return
	}

	fmt.Printf("%s (#%d)\n", adv.Title, adv.ID)
	if adv.Author != "" {
		fmt.Printf("by %s\n", adv.Author)
	}
	for _, sec := range adv.Sections {
		marker := " "
		if sec.ID == adv.StartSectionID {
			marker = "*"
		}
		fmt.Printf("%s [%d] %s (%s)\n", marker, sec.ID, sec.Name, plural(len(sec.Media), "media item"))
		choices, _ := g.Choices(sec.ID)
		for i, c := range choices {
			fmt.Println(indent(fmt.Sprintf("%d) %s -> [%d] %s", i, c.Decision, c.Target.ID, c.Target.Title), 4))
		}
	}
	if d := g.Dangling(); len(d) > 0 {
		fmt.Printf("%s point at missing sections; run `cyoa check --prune %d`\n", plural(len(d), "choice"), adv.ID)
	}
}
