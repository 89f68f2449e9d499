package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/description"
	"github.com/buxx/rollgui2-sub000/internal/event"
	"github.com/buxx/rollgui2-sub000/internal/transport"
	"github.com/buxx/rollgui2-sub000/pkg/api"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

// LoadDescription ждет документ описания.
// Ошибка при наличии прошлой страницы возвращает ее со встроенной ошибкой,
// без прошлой страницы - экран ошибки.
type LoadDescription struct {
	session  Session
	request  DescriptionRequest
	previous *description.Page
	history  description.Stack
	handle   *transport.Handle
}

func NewLoadDescription(m SetLoadDescriptionEngine) *LoadDescription {
	h := m.Session.Client.Description(m.Request.URL, m.Request.Query, m.Request.Data)
	logger.Log.WithFields(logrus.Fields{
		"url":        m.Request.URL,
		"request_id": h.ID(),
	}).Info("Description requested")
	return &LoadDescription{
		session:  m.Session,
		request:  m.Request,
		previous: m.Previous,
		history:  m.History,
		handle:   h,
	}
}

func (l *LoadDescription) Kind() Kind { return KindLoadDescription }

func (l *LoadDescription) URL() string {
	return l.request.URL
}

func (l *LoadDescription) InFlight() int {
	if l.handle != nil {
		return 1
	}
	return 0
}

func (l *LoadDescription) Tick(_ Frame, inputs []Input) []Message {
	for _, in := range inputs {
		if k, ok := in.(KeyPress); ok && k.Key == KeyEscape {
			return l.cancel()
		}
	}

	if l.handle == nil {
		return nil
	}
	res, ok := l.handle.Poll()
	if !ok {
		return nil
	}
	l.handle = nil

	if res.Err != nil {
		return l.fallback(transport.Message(res.Err))
	}
	var d api.Description
	if err := event.DecodeDocument("description", res.Body, &d); err != nil {
		return l.fallback(err.Error())
	}
	return l.open(d)
}

// open решает, что делать с пришедшим документом.
func (l *LoadDescription) open(d api.Description) []Message {
	switch {
	case d.AccountCreated:
		return []Message{SetRootEngine{Notice: AccountCreatedNotice}}
	case d.NewCharacterID != nil && *d.NewCharacterID != "":
		logger.Log.WithField("character_id", *d.NewCharacterID).Info("Character created")
		return []Message{SetLoadZoneEngine{Session: Session{Client: l.session.Client, CharacterID: *d.NewCharacterID}}}
	case d.Redirect != nil && *d.Redirect != "":
		return []Message{SetLoadDescriptionEngine{
			Session:  l.session,
			Request:  DescriptionRequest{URL: *d.Redirect},
			Previous: l.previous,
			History:  l.history,
		}}
	case d.BackToZone && l.session.HasCharacter():
		return []Message{SetLoadZoneEngine{Session: l.session, RequestClicks: d.RequestClicks}}
	}

	page, err := description.NewPage(d, l.request.URL)
	if err != nil {
		return l.fallback(err.Error())
	}
	history := l.history
	if l.previous != nil {
		history.Push(l.previous)
	}
	return []Message{SetDescriptionEngine{Session: l.session, Page: page, History: history}}
}

func (l *LoadDescription) fallback(reason string) []Message {
	logger.Log.WithFields(logrus.Fields{"url": l.request.URL, "error": reason}).Warn("Description failed")
	if l.previous != nil {
		return []Message{SetDescriptionEngineFrom{
			Session: l.session,
			Page:    l.previous,
			History: l.history,
			Error:   reason,
		}}
	}
	return fail("Erreur : " + reason)
}

// cancel - Escape во время загрузки: вернуться туда, откуда пришли.
func (l *LoadDescription) cancel() []Message {
	if l.previous != nil {
		return []Message{SetDescriptionEngine{Session: l.session, Page: l.previous, History: l.history}}
	}
	if l.session.HasCharacter() {
		return []Message{SetLoadZoneEngine{Session: l.session}}
	}
	return []Message{SetRootEngine{}}
}
