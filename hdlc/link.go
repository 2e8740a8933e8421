package hdlc

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Link is the byte transport a frame reader works on.
// A Read without data before the read timeout returns 0, nil.
type Link interface {
	io.ReadWriteCloser
	Flush() error
	SetReadTimeout(t time.Duration) error
}

// LinkError is a transport failure: device unplugged, permission denied, invalid port...
type LinkError struct {
	Op   string
	Port string
	Err  error
}

func (e *LinkError) Error() string {
	if e.Port == "" {
		return fmt.Sprintf("link: %s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("link %s: %s: %s", e.Port, e.Op, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

// Open opens port which is either a serial device (COM3, /dev/ttyUSB0)
// or a raw TCP bridge written tcp://host:port.
func Open(port string, cfg ReadConfig) (Link, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, scheme := range []string{"tcp://", "socket://"} {
		if addr, ok := strings.CutPrefix(port, scheme); ok {
			return openTCP(addr, cfg)
		}
	}

	return openSerial(strings.TrimPrefix(port, "file://"), cfg)
}

// Ports lists the serial ports detected on the host.
func Ports() ([]*enumerator.PortDetails, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, &LinkError{Op: "enumerate", Err: err}
	}

	return ports, nil
}

//
// Serial
//

type serialLink struct {
	name string
	port serial.Port
}

func openSerial(name string, cfg ReadConfig) (*serialLink, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, &LinkError{Op: "open", Port: name, Err: err}
	}

	l := &serialLink{name: name, port: port}
	if err = l.SetReadTimeout(cfg.Timeout); err != nil {
		port.Close()
		return nil, err
	}

	if err = port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, &LinkError{Op: "reset", Port: name, Err: err}
	}

	if err = port.ResetOutputBuffer(); err != nil {
		port.Close()
		return nil, &LinkError{Op: "reset", Port: name, Err: err}
	}

	return l, nil
}

func (l *serialLink) Read(p []byte) (int, error) {
	n, err := l.port.Read(p)
	if err != nil {
		return n, &LinkError{Op: "read", Port: l.name, Err: err}
	}
	return n, nil
}

func (l *serialLink) Write(p []byte) (int, error) {
	n, err := l.port.Write(p)
	if err != nil {
		return n, &LinkError{Op: "write", Port: l.name, Err: err}
	}
	return n, nil
}

func (l *serialLink) Flush() error {
	if err := l.port.Drain(); err != nil {
		return &LinkError{Op: "flush", Port: l.name, Err: err}
	}
	return nil
}

func (l *serialLink) SetReadTimeout(t time.Duration) error {
	if err := l.port.SetReadTimeout(t); err != nil {
		return &LinkError{Op: "set timeout", Port: l.name, Err: err}
	}
	return nil
}

func (l *serialLink) Close() error {
	// The port is released even if the buffers can't be reset.
	err := errors.Join(l.port.ResetInputBuffer(), l.port.ResetOutputBuffer(), l.port.Close())
	if err != nil {
		return &LinkError{Op: "close", Port: l.name, Err: err}
	}
	return nil
}

//
// TCP
//

type tcpLink struct {
	addr    string
	conn    net.Conn
	timeout time.Duration
}

func openTCP(addr string, cfg ReadConfig) (*tcpLink, error) {
	conn, err := net.DialTimeout("tcp", addr, max(cfg.Timeout, 5*time.Second))
	if err != nil {
		return nil, &LinkError{Op: "open", Port: addr, Err: err}
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.SetKeepAlive(true)
		tcp.SetKeepAlivePeriod(30 * time.Second)
	}

	return &tcpLink{addr: addr, conn: conn, timeout: cfg.Timeout}, nil
}

func (l *tcpLink) Read(p []byte) (int, error) {
	deadline := time.Time{}
	if l.timeout >= 0 {
		deadline = time.Now().Add(l.timeout)
	}
	if err := l.conn.SetReadDeadline(deadline); err != nil {
		return 0, &LinkError{Op: "read", Port: l.addr, Err: err}
	}

	n, err := l.conn.Read(p)
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return n, nil // Same as a serial read timeout
	}
	if err != nil {
		return n, &LinkError{Op: "read", Port: l.addr, Err: err}
	}
	return n, nil
}

func (l *tcpLink) Write(p []byte) (int, error) {
	n, err := l.conn.Write(p)
	if err != nil {
		return n, &LinkError{Op: "write", Port: l.addr, Err: err}
	}
	return n, nil
}

// Flush is a no-op, TCP writes are handed to the kernel synchronously.
func (l *tcpLink) Flush() error {
	return nil
}

func (l *tcpLink) SetReadTimeout(t time.Duration) error {
	l.timeout = t
	return nil
}

func (l *tcpLink) Close() error {
	if err := l.conn.Close(); err != nil {
		return &LinkError{Op: "close", Port: l.addr, Err: err}
	}
	return nil
}
