package progress

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"trainsim/pkg/api"
)

const maxLineBytes = 1024 * 1024

var (
	ErrMalformedLine  = errors.New("malformed line")
	ErrUnknownMessage = errors.New("unknown message")
)

type Kind int

const (
	KindProgress Kind = iota
	KindCompletion
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindCompletion:
		return "completion"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Message is one decoded line of the training stream. Exactly one of
// Progress, Completion and Error is set, matching Kind.
type Message struct {
	Line       int
	Kind       Kind
	Progress   *api.ProgressEvent
	Completion *api.CompletionEvent
	Error      *api.ErrorEvent
}

type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Decoder{scanner: scanner}
}

// Next returns the next message, or io.EOF once the stream is exhausted.
// Blank lines are skipped.
func (d *Decoder) Next() (Message, error) {
	for d.scanner.Scan() {
		d.line++
		raw := bytes.TrimSpace(d.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		return decodeLine(d.line, raw)
	}
	if err := d.scanner.Err(); err != nil {
		return Message{}, fmt.Errorf("error reading line %d: %w", d.line+1, err)
	}
	return Message{}, io.EOF
}

func decodeLine(line int, raw []byte) (Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Message{}, fmt.Errorf("line %d: %w: %v", line, ErrMalformedLine, err)
	}

	msg := Message{Line: line}

	switch {
	case stringField(fields, "type") == api.TrainingUpdate:
		var event api.ProgressEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return Message{}, fmt.Errorf("line %d: %w: %v", line, ErrMalformedLine, err)
		}
		msg.Kind, msg.Progress = KindProgress, &event
	case stringField(fields, "status") == api.StatusCompleted:
		var event api.CompletionEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return Message{}, fmt.Errorf("line %d: %w: %v", line, ErrMalformedLine, err)
		}
		msg.Kind, msg.Completion = KindCompletion, &event
	case isString(fields["error"]):
		var event api.ErrorEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return Message{}, fmt.Errorf("line %d: %w: %v", line, ErrMalformedLine, err)
		}
		msg.Kind, msg.Error = KindError, &event
	default:
		return Message{}, fmt.Errorf("line %d: %w", line, ErrUnknownMessage)
	}

	return msg, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// isString reports whether raw holds a JSON string. null and other types
// do not count.
func isString(raw json.RawMessage) bool {
	if len(raw) == 0 || raw[0] != '"' {
		return false
	}
	var s string
	return json.Unmarshal(raw, &s) == nil
}
