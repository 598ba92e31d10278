package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/cyoa/internal/search"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Rank adventures against a query",
		Long: fmt.Sprintf(`Rank adventures by how well a field matches the query. Every adventure is
listed, best matches first; use --strict to drop adventures that do not match.
Fields: %s.`, strings.Join(search.Fields(), ", ")),
		Run: runSearch,
	}

	cmd.Flags().String("by", search.FieldTitle, "Field to search")
	cmd.Flags().Bool("strict", false, "Only list matching adventures")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	by, _ := cmd.Flags().GetString("by")
	strict, _ := cmd.Flags().GetBool("strict")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s := openSession(cmd)
	defer s.Close()

	rank := s.lib.Sort
	if strict {
		rank = s.lib.Filter
	}
	results, err := rank(query, by)
	if err != nil {
		exitErr("search", err)
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	printAdventures(results)
}
