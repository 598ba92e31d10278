package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "new [title]",
		Short: "Create an adventure",
		Long:  "Create an adventure with an empty start section.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runNew,
	}

	cmd.Flags().StringP("author", "a", "", "Author name")
	cmd.Flags().Bool("random", false, "Allow random choices while reading")

	RootCmd.AddCommand(cmd)
}

func runNew(cmd *cobra.Command, args []string) {
	author, _ := cmd.Flags().GetString("author")
	random, _ := cmd.Flags().GetBool("random")

	s := openSession(cmd)
	defer s.Close()

	adv, err := s.lib.NewAdventure(strings.Join(args, " "), author)
	if err != nil {
		exitErr("new", err)
	}
	adv.RandomEnabled = random
	if err := s.lib.Save(cmd.Context(), adv.ID); err != nil {
		exitErr("save", err)
	}

	printJSON(summarize(adv))
}
