package bedlink

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mdouchement/bedlink/hdlc"
	"github.com/mdouchement/bedlink/hexbyte"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "bedlink.yml", `
port: /dev/ttyUSB0
baudrate: 9600
timeout: 1500ms
crc_mode: x25
keep_crc: true
initial_listen: 10s
requests:
  - "7E 14 17 00"
  - "0x7E,0x15,0x01,0x00"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.InitialListen.Duration)
	assert.Equal(t, 200*time.Millisecond, cfg.PostWriteDelay.Duration, "default kept")
	assert.Equal(t, 1, cfg.ResponsesPerRequest, "default kept")

	rc, err := cfg.ReadConfig()
	require.NoError(t, err)
	assert.Equal(t, hdlc.ReadConfig{
		BaudRate:         9600,
		Timeout:          1500 * time.Millisecond,
		InterbyteTimeout: 100 * time.Millisecond,
		CRCMode:          hdlc.CRCX25,
		RemoveCRC:        false,
	}, rc)

	requests, err := ParseRequests(cfg.Requests)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x7E, 0x14, 0x17, 0x00}, {0x7E, 0x15, 0x01, 0x00}}, requests)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "bedlink.toml", `
port = "tcp://10.0.0.12:4001"
interbyte_timeout = "50ms"
responses_per_request = 2
post_write_delay = "0s"
shared_flags = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tcp://10.0.0.12:4001", cfg.Port)
	assert.Equal(t, 50*time.Millisecond, cfg.InterbyteTimeout.Duration)
	assert.Equal(t, 2, cfg.ResponsesPerRequest)
	assert.Zero(t, cfg.PostWriteDelay.Duration)
	assert.Equal(t, 38400, cfg.BaudRate, "default kept")

	rc, err := cfg.ReadConfig()
	require.NoError(t, err)
	assert.True(t, rc.SharedFlags)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
		err     error
	}{
		{name: "crc mode", file: "a.yml", content: "crc_mode: crc32\n", err: hdlc.ErrInvalidConfig},
		{name: "baudrate", file: "b.yaml", content: "baudrate: 0\n", err: hdlc.ErrInvalidConfig},
		{name: "negative listen", file: "c.toml", content: "initial_listen = \"-1s\"\n", err: ErrInvalidConfig},
		{name: "negative responses", file: "d.yml", content: "responses_per_request: -1\n", err: ErrInvalidConfig},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.file, tc.content))
			assert.ErrorIs(t, err, tc.err)
		})
	}

	_, err := Load(writeFile(t, "e.ini", "port=COM3\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRequestsReportsEveryInvalidText(t *testing.T) {
	_, err := ParseRequests([]string{"7E 14", "ZZ", "", "0x100"})
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)

	var texts []string
	for _, e := range joined.Unwrap() {
		var perr *hexbyte.ParseError
		require.True(t, errors.As(e, &perr))
		texts = append(texts, perr.Text)
	}
	assert.Equal(t, []string{"ZZ", "", "0x100"}, texts)
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "2.0", FormatSeconds(2*time.Second))
	assert.Equal(t, "0.1", FormatSeconds(100*time.Millisecond))
	assert.Equal(t, "0.0", FormatSeconds(0))
	assert.Equal(t, 1500*time.Millisecond, Seconds(1.5))
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("BEDLINK_CONFIG_DIR", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadOrDefault(writeFile(t, "bedlink.yml", "port: COM7\n"))
	require.NoError(t, err)
	assert.Equal(t, "COM7", cfg.Port)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
