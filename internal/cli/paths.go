package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "paths [adventure-id]",
		Short: "Suggest reading paths from the start section",
		Args:  cobra.ExactArgs(1),
		Run:   runPaths,
	}

	cmd.Flags().Int("depth", 10, "Max sections per path")
	cmd.Flags().IntP("limit", "l", 10, "Max paths")

	RootCmd.AddCommand(cmd)
}

func runPaths(cmd *cobra.Command, args []string) {
	id := parseID("adventure", args[0])
	depth, _ := cmd.Flags().GetInt("depth")
	limit, _ := cmd.Flags().GetInt("limit")

	s := openSession(cmd)
	defer s.Close()

	p := openAdventureEditor(s, id)
	paths, err := p.Paths(depth, limit)
	if err != nil {
		exitErr("paths", err)
	}

	if !textOutput() {
		printJSON(paths)
		return
	}
	names := map[int]string{}
	for _, t := range p.SectionTitles() {
		names[t.ID] = t.Title
	}
	for i, path := range paths {
		steps := make([]string, 0, len(path))
		for _, sid := range path {
			steps = append(steps, fmt.Sprintf("%s[%d]", names[sid], sid))
		}
		fmt.Printf("%d: %s\n", i, strings.Join(steps, " -> "))
	}
}
