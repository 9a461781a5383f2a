package serialio

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

// ErrNotConnected is returned when an operation needs an open port and
// there is none.
var ErrNotConnected = errors.New("serial: not connected")

// overridable for tests
var openPort = func(name string, mode *serial.Mode) (serial.Port, error) {
	return serial.Open(name, mode)
}

// LineReader owns one serial connection and frames its byte stream into
// text lines. A single mutex serializes every port operation, so one
// instance may be shared by a reader loop and a command writer without
// interleaved partial writes.
type LineReader struct {
	name    string
	baud    int
	timeout time.Duration

	mu   sync.Mutex
	port serial.Port
	buf  []byte
}

func New(name string, baud int, timeout time.Duration) *LineReader {
	return &LineReader{name: name, baud: baud, timeout: timeout}
}

// Connect opens the port. On failure the reader stays disconnected and
// the error is returned; callers should check Connected before use.
func (r *LineReader) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.port != nil {
		return nil
	}
	port, err := openPort(r.name, &serial.Mode{BaudRate: r.baud})
	if err != nil {
		log.Printf("[serial] failed to open %s: %v", r.name, err)
		return err
	}
	if err := port.SetReadTimeout(r.timeout); err != nil {
		port.Close()
		log.Printf("[serial] failed to set read timeout on %s: %v", r.name, err)
		return err
	}
	log.Printf("[serial] connected to %s @ %d baud", r.name, r.baud)
	r.port = port
	r.buf = nil
	return nil
}

// Disconnect closes the port if open. Safe to call repeatedly.
func (r *LineReader) Disconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.port == nil {
		return
	}
	if err := r.port.Close(); err != nil {
		log.Printf("[serial] close %s: %v", r.name, err)
	}
	r.port = nil
	r.buf = nil
}

func (r *LineReader) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.port != nil
}

// ReadLine returns the next complete line, decoded permissively and
// trimmed. ("", nil) means no full line arrived within the read timeout.
// A non-nil error means the connection is unusable.
func (r *LineReader) ReadLine() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.port == nil {
		return "", ErrNotConnected
	}

	if line, ok := r.nextBuffered(); ok {
		return line, nil
	}

	chunk := make([]byte, 256)
	n, err := r.port.Read(chunk)
	if err != nil {
		return "", err
	}
	if n == 0 {
		// read timeout, nothing arrived
		return "", nil
	}
	r.buf = append(r.buf, chunk[:n]...)
	if line, ok := r.nextBuffered(); ok {
		return line, nil
	}
	return "", nil
}

// nextBuffered pops the first non-empty complete line from the buffer.
// Caller holds the lock.
func (r *LineReader) nextBuffered() (string, bool) {
	for {
		i := bytes.IndexByte(r.buf, '\n')
		if i < 0 {
			return "", false
		}
		raw := r.buf[:i]
		r.buf = r.buf[i+1:]
		line := strings.TrimSpace(strings.ToValidUTF8(string(raw), ""))
		if line != "" {
			return line, true
		}
	}
}

// WriteLine appends a newline and writes the encoded bytes to the device.
// It returns the number of payload bytes sent, excluding the terminator.
func (r *LineReader) WriteLine(text string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.port == nil {
		return 0, ErrNotConnected
	}
	data := []byte(text + "\n")
	if _, err := r.port.Write(data); err != nil {
		return 0, err
	}
	return len(data) - 1, nil
}
