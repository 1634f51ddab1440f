package pagination

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidCursor   = errors.New("invalid cursor")
	ErrInvalidArgument = errors.New("invalid argument")
)

var encoding = base64.RawURLEncoding

type Cursor struct {
	ID int64 `json:"id"`
}

func (c Cursor) Encode() string {
	b, _ := json.Marshal(c)
	return encoding.EncodeToString(b)
}

// EncodeCursor returns the opaque cursor for a record id.
func EncodeCursor(id int64) string {
	return Cursor{ID: id}.Encode()
}

// DecodeCursor reverses EncodeCursor. Anything that EncodeCursor could not
// have produced fails with ErrInvalidCursor.
func DecodeCursor(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidCursor)
	}
	data, err := encoding.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var c Cursor
	if err := dec.Decode(&c); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if dec.More() {
		return 0, fmt.Errorf("%w: trailing data", ErrInvalidCursor)
	}
	if c.ID <= 0 {
		return 0, fmt.Errorf("%w: id must be > 0", ErrInvalidCursor)
	}
	return c.ID, nil
}
