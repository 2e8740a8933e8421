package encode

import (
	"fmt"

	"github.com/mdouchement/bedlink/hdlc"
	"github.com/mdouchement/bedlink/hexbyte"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var crcmode string

	cmd := &cobra.Command{
		Use:   "encode <hex>",
		Short: "Wrap a payload into a frame usable with --request",
		Example: `  bedctl encode "14 17 00" --crc-mode x25
  7E, 14, 17, 00, A1, F8, 7E`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			frame, err := Encode(args[0], crcmode)
			if err != nil {
				return err
			}

			fmt.Println(frame)
			return nil
		},
	}
	cmd.Flags().StringVarP(&crcmode, "crc-mode", "", string(hdlc.CRCAbsent), "Appended frame check: x25 or absent")

	return cmd
}

// Encode returns the display form of the frame wrapping text.
func Encode(text, crcmode string) (string, error) {
	payload, err := hexbyte.Parse(text)
	if err != nil {
		return "", err
	}

	mode, err := hdlc.ParseCRCMode(crcmode)
	if err != nil {
		return "", err
	}

	return hexbyte.Format(hdlc.Encode(payload, mode)), nil
}
