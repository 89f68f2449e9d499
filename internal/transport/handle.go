package transport

import (
	"context"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
)

// Result - итог одной сетевой операции.
type Result struct {
	Status int
	Body   []byte
	Err    error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Handle - неблокирующий дескриптор операции в полете.
// Poll возвращает результат ровно один раз, после этого дескриптор израсходован.
// Отмена - просто перестать опрашивать: результат будет отброшен.
type Handle struct {
	id       string
	ch       chan Result
	resolved atomic.Bool
	spent    bool
}

func NewHandle() *Handle {
	return &Handle{
		id: ulid.Make().String(),
		ch: make(chan Result, 1),
	}
}

// ID - идентификатор запроса для логов.
func (h *Handle) ID() string {
	return h.id
}

// Resolve передает результат. Повторные вызовы игнорируются, вызов не блокирует.
func (h *Handle) Resolve(r Result) {
	if !h.resolved.CompareAndSwap(false, true) {
		return
	}
	h.ch <- r
}

// Poll не блокирует: (result, true) один раз, когда операция завершилась.
func (h *Handle) Poll() (Result, bool) {
	if h.spent {
		return Result{}, false
	}
	select {
	case r := <-h.ch:
		h.spent = true
		return r, true
	default:
		return Result{}, false
	}
}

func (h *Handle) Spent() bool {
	return h.spent
}

// Wait блокирует до результата. Только для тестов и утилит вне цикла тиков.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	if h.spent {
		return Result{}, ErrSpent
	}
	select {
	case r := <-h.ch:
		h.spent = true
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Resolved возвращает уже завершенный дескриптор.
func Resolved(r Result) *Handle {
	h := NewHandle()
	h.Resolve(r)
	return h
}
