package show

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mdouchement/bedlink"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <capture>",
		Short: "Print a capture recorded with --record",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			capture, err := bedlink.LoadCapture(args[0])
			if err != nil {
				return err
			}

			return Show(os.Stdout, capture, asJSON)
		},
	}
	cmd.Flags().BoolVarP(&asJSON, "json", "", false, "Print the capture as JSON")

	return cmd
}

// Show writes capture as it was displayed during the session, or as indented JSON.
func Show(w io.Writer, capture bedlink.Capture, asJSON bool) error {
	if asJSON {
		codec := json.NewEncoder(w)
		codec.SetIndent("", "  ")
		return codec.Encode(capture)
	}

	capture.Replay(bedlink.NewPrinter(w))
	return nil
}
