package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	if !textOutput() {
		printJSON(stats)
		return
	}
	fmt.Printf("%s (%s)\n", stats.DBPath, humanize.Bytes(uint64(stats.DBSizeBytes)))
	fmt.Printf("%s, %s, %s\n", plural(stats.Adventures, "adventure"),
		plural(stats.Sections, "section"), plural(stats.Choices, "choice"))
	fmt.Printf("%s totalling %s\n", plural(stats.Media, "media item"), humanize.Bytes(uint64(stats.MediaBytes)))
	if stats.DanglingChoices > 0 {
		fmt.Printf("%s point at missing sections\n", plural(stats.DanglingChoices, "choice"))
	}
	for _, a := range stats.PerAdventure {
		fmt.Printf("  %4d  %-30s %s, %s\n", a.ID, a.Title,
			plural(a.Sections, "section"), plural(a.Choices, "choice"))
	}
}
