package engine

import (
	"bytes"

	"github.com/buxx/rollgui2-sub000/internal/transport"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

const deadCheckFailedMessage = "Erreur interne (impossible de récupérer le personnage)"

// CheckDead выясняет, почему персонаж не разобрался: тело "1" - персонаж мертв.
type CheckDead struct {
	session Session
	handle  *transport.Handle
}

func NewCheckDead(session Session) *CheckDead {
	return &CheckDead{session: session, handle: session.Client.CharacterDead(session.CharacterID)}
}

func (c *CheckDead) Kind() Kind { return KindCheckDead }

func (c *CheckDead) Tick(_ Frame, _ []Input) []Message {
	if c.handle == nil {
		return nil
	}
	res, ok := c.handle.Poll()
	if !ok {
		return nil
	}
	c.handle = nil
	if res.Err != nil {
		logger.Log.WithError(res.Err).Error("Death check failed")
		return fail(deadCheckFailedMessage)
	}
	if !bytes.Equal(bytes.TrimSpace(res.Body), []byte("1")) {
		return fail(deadCheckFailedMessage)
	}

	logger.Log.WithField("character_id", c.session.CharacterID).Info("Character is dead")
	// Мертвый персонаж больше не персонаж сессии: закрытие ведет на экран входа.
	return []Message{SetLoadDescriptionEngine{
		Session: Session{Client: c.session.Client},
		Request: DescriptionRequest{URL: transport.PostMortemPath(c.session.CharacterID)},
	}}
}
