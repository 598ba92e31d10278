package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Attach media to sections",
	}

	add := &cobra.Command{
		Use:   "add [adventure-id] [section-id] [file]",
		Short: "Append a file to a section's media",
		Long:  "Append a file to a section's media. The kind is detected from the file content unless --kind is given.",
		Args:  cobra.ExactArgs(3),
		Run:   runMediaAdd,
	}
	add.Flags().String("kind", "", "Media kind: image, text, audio, video")
	add.Flags().StringP("caption", "c", "", "Caption")

	replace := &cobra.Command{
		Use:   "replace [adventure-id] [section-id] [position] [file]",
		Short: "Replace the media at a position, keeping its id",
		Args:  cobra.ExactArgs(4),
		Run:   runMediaReplace,
	}
	replace.Flags().String("kind", "", "Media kind: image, text, audio, video")
	replace.Flags().StringP("caption", "c", "", "Caption")

	list := &cobra.Command{
		Use:   "list [adventure-id] [section-id]",
		Short: "List a section's media",
		Args:  cobra.ExactArgs(2),
		Run:   runMediaList,
	}

	cmd.AddCommand(add, replace, list)
	RootCmd.AddCommand(cmd)
}

// readMedia loads a file and works out its kind and mime type.
func readMedia(cmd *cobra.Command, path string) model.Media {
	kind, _ := cmd.Flags().GetString("kind")
	caption, _ := cmd.Flags().GetString("caption")

	data, err := os.ReadFile(path)
	if err != nil {
		exitErr("read media", err)
	}
	mtype := mimetype.Detect(data)
	if kind == "" {
		kind = kindForMIME(mtype.String())
	}
	if !model.ValidMediaKinds[kind] {
		exitErr("media", apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			"cannot tell media kind, use --kind", map[string]string{"mime_type": mtype.String()}))
	}
	return model.Media{Kind: kind, MimeType: mtype.String(), Caption: caption, Data: data}
}

func kindForMIME(mime string) string {
	for _, kind := range []string{"image", "audio", "video", "text"} {
		if strings.HasPrefix(mime, kind+"/") {
			return kind
		}
	}
	return ""
}

func runMediaAdd(cmd *cobra.Command, args []string) {
	advID := parseID("adventure", args[0])
	sectionID := parseID("section", args[1])
	m := readMedia(cmd, args[2])

	s := openSession(cmd)
	defer s.Close()

	p, restore := openSectionEditor(s, advID, sectionID)
	added, err := p.AddMedia(m)
	if err != nil {
		exitErr("media add", err)
	}
	restore()
	saveAdventure(cmd, s, advID)

	printJSON(viewMedia([]model.Media{added})[0])
}

func runMediaReplace(cmd *cobra.Command, args []string) {
	advID := parseID("adventure", args[0])
	sectionID := parseID("section", args[1])
	pos, err := strconv.Atoi(args[2])
	if err != nil {
		exitErr("parse position", apperrors.Newf(apperrors.CodeInvalidArgument, "invalid position %q", args[2]))
	}
	m := readMedia(cmd, args[3])

	s := openSession(cmd)
	defer s.Close()

	p, restore := openSectionEditor(s, advID, sectionID)
	if err := p.ReplaceMedia(pos, m); err != nil {
		exitErr("media replace", err)
	}
	media := p.Media()
	restore()
	saveAdventure(cmd, s, advID)

	printJSON(viewMedia(media[pos : pos+1])[0])
}

func runMediaList(cmd *cobra.Command, args []string) {
	advID := parseID("adventure", args[0])
	sectionID := parseID("section", args[1])

	s := openSession(cmd)
	defer s.Close()

	p, _ := openSectionEditor(s, advID, sectionID)
	media := viewMedia(p.Media())
	if !textOutput() {
		printJSON(media)
		return
	}
	for i, m := range media {
		fmt.Printf("%d) %s %s %s\n", i, m.Kind, m.MimeType, m.Caption)
	}
}
