package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/cyoa/internal/model"
	"github.com/rcliao/cyoa/internal/storyfile"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import an adventure from a YAML story file",
		Long:  "Import an adventure from a YAML story file, or from stdin when no file is given. Expects the format produced by export.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	cmd.Flags().Bool("replace", false, "Overwrite an adventure with the same id instead of importing a copy")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	replace, _ := cmd.Flags().GetBool("replace")

	var (
		adv *model.Adventure
		err error
	)
	if len(args) == 0 || args[0] == "-" {
		adv, err = storyfile.Decode(os.Stdin)
	} else {
		adv, err = storyfile.Import(args[0])
	}
	if err != nil {
		exitErr("import", err)
	}

	s := openSession(cmd)
	defer s.Close()

	adv = s.lib.Import(adv, replace)
	saveAdventure(cmd, s, adv.ID)

	printJSON(summarize(adv))
}
