package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm [adventure-id]",
		Short: "Delete an adventure",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	id := parseID("adventure", args[0])

	s := openSession(cmd)
	defer s.Close()

	if err := s.lib.DeleteAdventure(cmd.Context(), id); err != nil {
		exitErr("rm", err)
	}

	fmt.Printf(`{"ok":true,"deleted":%d}`+"\n", id)
}
