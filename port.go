package bedlink

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mdouchement/bedlink/environment"
	"github.com/mdouchement/bedlink/hdlc"
)

var ErrNoPort = errors.New("no port provided")

// ResolvePort returns the first of arg, the configured port and $BED_CONTROL_PORT that is set.
// When none is, the error lists the serial ports detected on the host.
func ResolvePort(arg string, cfg Config) (string, error) {
	for _, port := range []string{arg, cfg.Port, environment.DefaultPort()} {
		if port != "" {
			return port, nil
		}
	}

	ports, err := hdlc.Ports()
	if err != nil || len(ports) == 0 {
		return "", fmt.Errorf("%w and no serial ports were detected automatically. Ensure the device is connected or set the %s environment variable",
			ErrNoPort, environment.KeyPort)
	}

	var sb strings.Builder
	for _, p := range ports {
		fmt.Fprintf(&sb, "  - %s\n", p.Name)
	}

	return "", fmt.Errorf("%w. Detected serial ports:\n%s\nRe-run the command with one of the ports above, for example:\n    bedctl %s",
		ErrNoPort, sb.String(), ports[0].Name)
}
