package event

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTag    = errors.New("unknown event")
	ErrMissingField  = errors.New("missing field")
	ErrWrongType     = errors.New("wrong type")
	ErrMalformedJSON = errors.New("malformed json")
)

// DecodeError - сообщение канала нельзя превратить в событие.
// Tag пуст, если сломан сам конверт; Field пуст, если ошибка не относится к полю.
type DecodeError struct {
	Tag   string
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Tag == "":
		return fmt.Sprintf("decode event: %v", e.Err)
	case e.Field == "":
		return fmt.Sprintf("decode event %s: %v", e.Tag, e.Err)
	default:
		return fmt.Sprintf("decode event %s: field %q: %v", e.Tag, e.Field, e.Err)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
