package engine

// Error показывает причину ошибки. Любой ввод возвращает на экран входа.
type Error struct {
	Reason string
}

func NewError(reason string) *Error {
	return &Error{Reason: reason}
}

func (e *Error) Kind() Kind { return KindError }

func (e *Error) Tick(_ Frame, inputs []Input) []Message {
	if len(inputs) > 0 {
		return []Message{SetRootEngine{}}
	}
	return nil
}
