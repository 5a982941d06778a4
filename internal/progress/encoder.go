package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type flusher interface {
	Flush() error
}

// Encoder writes one JSON object per line. If the underlying writer buffers
// (bufio.Writer and friends) it is flushed after every line so a reader on the
// other end of a pipe sees each event as soon as it is written.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error encoding event: %w", err)
	}

	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("error writing event: %w", err)
	}

	if f, ok := e.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("error flushing event: %w", err)
		}
	}
	return nil
}
