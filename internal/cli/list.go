package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/cyoa/internal/search"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List adventures",
		Run:   runList,
	}

	cmd.Flags().String("sort", "", "Sort by field: title or author (default: id)")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	sortBy, _ := cmd.Flags().GetString("sort")
	limit, _ := cmd.Flags().GetInt("limit")

	s := openSession(cmd)
	defer s.Close()

	advs := s.lib.Adventures()
	if sortBy != "" {
		sorted, err := search.SearchBy(advs, "", sortBy)
		if err != nil {
			exitErr("list", err)
		}
		advs = sorted
	}
	if limit > 0 && len(advs) > limit {
		advs = advs[:limit]
	}

	printAdventures(advs)
}
