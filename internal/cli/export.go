package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/cyoa/internal/storyfile"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export [adventure-id]",
		Short: "Export an adventure as a YAML story file",
		Long:  "Export an adventure as YAML to stdout, or to a file with -o.",
		Args:  cobra.ExactArgs(1),
		Run:   runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	id := parseID("adventure", args[0])
	output, _ := cmd.Flags().GetString("output")

	s := openSession(cmd)
	defer s.Close()

	adv, err := s.lib.Get(id)
	if err != nil {
		exitErr("export", err)
	}

	if output == "" {
		if err := storyfile.Encode(os.Stdout, adv); err != nil {
			exitErr("export", err)
		}
		return
	}
	if err := storyfile.Export(output, adv); err != nil {
		exitErr("export", err)
	}
	fmt.Printf(`{"ok":true,"exported":%d,"path":%q}`+"\n", id, output)
}
