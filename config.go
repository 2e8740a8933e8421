package bedlink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mdouchement/bedlink/environment"
	"github.com/mdouchement/bedlink/hdlc"
	"github.com/mdouchement/bedlink/hexbyte"
	"go.yaml.in/yaml/v4"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Debug               bool     `yaml:"debug" toml:"debug"`
	Port                string   `yaml:"port" toml:"port"`
	BaudRate            int      `yaml:"baudrate" toml:"baudrate"`
	Timeout             Duration `yaml:"timeout" toml:"timeout"`
	InterbyteTimeout    Duration `yaml:"interbyte_timeout" toml:"interbyte_timeout"`
	CRCMode             string   `yaml:"crc_mode" toml:"crc_mode"`
	KeepCRC             bool     `yaml:"keep_crc" toml:"keep_crc"`
	SharedFlags         bool     `yaml:"shared_flags" toml:"shared_flags"`
	InitialListen       Duration `yaml:"initial_listen" toml:"initial_listen"`
	PostWriteDelay      Duration `yaml:"post_write_delay" toml:"post_write_delay"`
	ResponsesPerRequest int      `yaml:"responses_per_request" toml:"responses_per_request"`
	Requests            []string `yaml:"requests" toml:"requests"`
}

// DefaultConfig holds the values used for everything neither the config file nor the flags set.
// They suit a unit streaming one frame per second.
func DefaultConfig() Config {
	return Config{
		BaudRate:            38400,
		Timeout:             Duration{2 * time.Second},
		InterbyteTimeout:    Duration{100 * time.Millisecond},
		CRCMode:             string(hdlc.CRCNone),
		InitialListen:       Duration{5 * time.Second},
		PostWriteDelay:      Duration{200 * time.Millisecond},
		ResponsesPerRequest: 1,
	}
}

// Load reads a YAML (.yml, .yaml) or TOML (.toml) file on top of DefaultConfig.
func Load(path string) (Config, error) {
	c := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		_, err = toml.NewDecoder(f).Decode(&c)
	case ".yml", ".yaml", "":
		codec := yaml.NewDecoder(f)
		err = codec.Decode(&c)
	default:
		return c, fmt.Errorf("%s: unsupported config format %s", path, ext)
	}
	if err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}

	//

	if err = c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

func (c Config) Validate() error {
	if _, err := c.ReadConfig(); err != nil {
		return err
	}
	if c.InitialListen.Duration < 0 {
		return fmt.Errorf("%w: negative initial_listen", ErrInvalidConfig)
	}
	if c.PostWriteDelay.Duration < 0 {
		return fmt.Errorf("%w: negative post_write_delay", ErrInvalidConfig)
	}
	if c.ResponsesPerRequest < 0 {
		return fmt.Errorf("%w: negative responses_per_request", ErrInvalidConfig)
	}

	return nil
}

// ReadConfig returns the link and frame reader settings.
func (c Config) ReadConfig() (hdlc.ReadConfig, error) {
	mode, err := hdlc.ParseCRCMode(c.CRCMode)
	if err != nil {
		return hdlc.ReadConfig{}, err
	}

	rc := hdlc.ReadConfig{
		BaudRate:         c.BaudRate,
		Timeout:          c.Timeout.Duration,
		InterbyteTimeout: c.InterbyteTimeout.Duration,
		CRCMode:          mode,
		RemoveCRC:        !c.KeepCRC,
		SharedFlags:      c.SharedFlags,
	}
	return rc, rc.Validate()
}

// ParseRequests converts every text to bytes. All the invalid texts are
// reported, the returned error unwraps to one *hexbyte.ParseError per text.
func ParseRequests(texts []string) ([][]byte, error) {
	requests := make([][]byte, 0, len(texts))
	var errs []error

	for _, text := range texts {
		data, err := hexbyte.Parse(text)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		requests = append(requests, data)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return requests, nil
}

// LoadOrDefault loads path. When path is empty the user config file is
// loaded if it exists, DefaultConfig is returned otherwise.
func LoadOrDefault(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}

	path = environment.ConfigPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return Load(path)
}
