package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// JSONHandler implements IOHandler over newline-delimited JSON.
//
// Each input line is either a JSON string ("5 + 3 ="), an object with a
// "keys" field, or plain text. Each output line is a View, or a
// SystemMessage for meta output.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// SystemMessage is emitted by SystemOutput.
type SystemMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type keysLine struct {
	Keys *string `json:"keys"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, view View) error {
	return h.Encoder.Encode(view)
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if json.Unmarshal([]byte(text), &val) == nil {
		text = val
	} else {
		var obj keysLine
		if json.Unmarshal([]byte(text), &obj) == nil && obj.Keys != nil {
			text = *obj.Keys
		}
	}

	return SanitizeInput(text)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(SystemMessage{Type: "system", Message: msg})
}
