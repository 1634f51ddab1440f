package pagination

import "fmt"

type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Args is the relay pagination argument set as it arrives from the API.
type Args struct {
	First  *int
	Last   *int
	After  *string
	Before *string
}

// Window is a validated slice request: Size records from one side of Cursor.
// Cursor == 0 means the window starts at the corresponding end of the set.
type Window struct {
	Direction Direction
	Size      int
	Cursor    int64
}

// Fetch is the number of records to read, one more than Size so the
// existence of a further page is known without another round trip.
func (w Window) Fetch() int {
	return w.Size + 1
}

func (w Window) HasCursor() bool {
	return w.Cursor > 0
}

func (a Args) hasAfter() bool  { return a.After != nil && *a.After != "" }
func (a Args) hasBefore() bool { return a.Before != nil && *a.Before != "" }

// Window validates the arguments and resolves them into a Window.
// Sizes above maxSize are clamped; a missing size falls back to defaultSize.
func (a Args) Window(defaultSize, maxSize int) (Window, error) {
	if a.First != nil && a.Last != nil {
		return Window{}, fmt.Errorf("%w: first and last are mutually exclusive", ErrInvalidArgument)
	}
	if a.hasAfter() && a.hasBefore() {
		return Window{}, fmt.Errorf("%w: after and before are mutually exclusive", ErrInvalidArgument)
	}
	if a.First != nil && a.hasBefore() {
		return Window{}, fmt.Errorf("%w: before requires last", ErrInvalidArgument)
	}
	if a.Last != nil && a.hasAfter() {
		return Window{}, fmt.Errorf("%w: after requires first", ErrInvalidArgument)
	}

	w := Window{Direction: Forward, Size: defaultSize}
	switch {
	case a.First != nil:
		if *a.First <= 0 {
			return Window{}, fmt.Errorf("%w: first must be > 0, got %d", ErrInvalidArgument, *a.First)
		}
		w.Size = *a.First
	case a.Last != nil:
		if *a.Last <= 0 {
			return Window{}, fmt.Errorf("%w: last must be > 0, got %d", ErrInvalidArgument, *a.Last)
		}
		w.Direction = Backward
		w.Size = *a.Last
	case a.hasBefore():
		w.Direction = Backward
	}
	if maxSize > 0 && w.Size > maxSize {
		w.Size = maxSize
	}

	var (
		raw string
		err error
	)
	if w.Direction == Forward && a.hasAfter() {
		raw = *a.After
	} else if w.Direction == Backward && a.hasBefore() {
		raw = *a.Before
	}
	if raw != "" {
		if w.Cursor, err = DecodeCursor(raw); err != nil {
			return Window{}, err
		}
	}
	return w, nil
}
