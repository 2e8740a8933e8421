package ports

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mdouchement/bedlink/hdlc"
	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "Show the serial ports detected on this host",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			ports, err := hdlc.Ports()
			if err != nil {
				return err
			}
			if len(ports) == 0 {
				fmt.Println("No serial ports detected")
				return nil
			}

			slices.SortStableFunc(ports, func(a, b *enumerator.PortDetails) int {
				return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
			})

			for _, p := range ports {
				if !p.IsUSB {
					fmt.Printf("%-16s\n", p.Name)
					continue
				}
				fmt.Printf("%-16s VID: %s - PID: %s - SN: %s - %s\n", p.Name, p.VID, p.PID, p.SerialNumber, p.Product)
			}

			return nil
		},
	}
}
