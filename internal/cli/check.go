package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/cyoa/internal/graph"
)

func init() {
	cmd := &cobra.Command{
		Use:   "check [adventure-id]",
		Short: "Report choices that point at missing sections",
		Long: `Lists choices whose target section no longer exists. Without --prune the
command exits with INCONSISTENT_GRAPH when any are found.`,
		Args:  cobra.ExactArgs(1),
		Run:   runCheck,
	}

	cmd.Flags().Bool("prune", false, "Remove the dangling choices")

	RootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	id := parseID("adventure", args[0])
	prune, _ := cmd.Flags().GetBool("prune")

	s := openSession(cmd)
	defer s.Close()

	p := openAdventureEditor(s, id)
	dangling := p.Dangling()
	if dangling == nil {
		dangling = []graph.DanglingChoice{}
	}
	pruned := 0
	if prune {
		pruned = p.Prune()
		if pruned > 0 {
			saveAdventure(cmd, s, id)
		}
	}

	printJSON(map[string]any{
		"adventure_id": id,
		"dangling":     dangling,
		"pruned":       pruned,
	})
	if !prune {
		if err := p.Check(); err != nil {
			exitErr("check", err)
		}
	}
}
