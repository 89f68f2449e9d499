package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/buxx/rollgui2-sub000/pkg/api"
)

// UnknownErrorMessage показывается, когда сервер не объяснил ошибку.
const UnknownErrorMessage = "Erreur inconnue"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrSpent        = errors.New("handle already consumed")
	ErrTimeout      = errors.New("operation timed out")
	ErrClosed       = errors.New("channel closed")
)

// Error - сетевая ошибка или ответ сервера не 2xx.
// Message - текст сервера без изменений, его видит пользователь.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transport: %s", e.Message)
	}
	return fmt.Sprintf("transport: status %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// statusError строит ошибку из ответа сервера.
func statusError(status int, body []byte) *Error {
	message := UnknownErrorMessage
	var eb api.ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		message = eb.Message
	}
	e := &Error{Status: status, Message: message}
	if status == http.StatusUnauthorized {
		e.Err = ErrUnauthorized
	}
	return e
}

func networkError(err error) *Error {
	return &Error{Message: err.Error(), Err: err}
}

// Message достает текст для пользователя из любой ошибки.
func Message(err error) string {
	var te *Error
	if errors.As(err, &te) {
		return te.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
