package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/event"
	"github.com/buxx/rollgui2-sub000/internal/transport"
	"github.com/buxx/rollgui2-sub000/internal/zone"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

var arrowDirections = map[Key]zone.Direction{
	KeyUp:    zone.North,
	KeyDown:  zone.South,
	KeyLeft:  zone.West,
	KeyRight: zone.East,
}

func (z *Zone) handle(in Input) []Message {
	switch in := in.(type) {
	case KeyPress:
		return z.handleKey(in)
	case TileClick:
		z.clickTile(in.Row, in.Col)
	case Button:
		return z.handleButton(in)
	}
	return nil
}

func (z *Zone) handleKey(k KeyPress) []Message {
	if dir, ok := arrowDirections[k.Key]; ok {
		z.walk(dir)
		return nil
	}
	switch k.Key {
	case KeyEscape:
		z.State.Deselect()
		z.Inventory = nil
		z.ChatOpen = false
	case KeyRune:
		for i, qa := range z.State.QuickActions {
			if qa.QuickActionKey == nil {
				continue
			}
			if key := []rune(*qa.QuickActionKey); len(key) > 0 && key[0] == k.Rune {
				return z.useQuickAction(i)
			}
		}
	}
	return nil
}

func (z *Zone) handleButton(b Button) []Message {
	id := z.State.Player.ID
	switch b.ID {
	case ButtonMainActions:
		return z.openDescription(transport.DescribeCharacterPath(id, "main_actions"))
	case ButtonCharacterCard:
		return z.openDescription(transport.DescribeCharacterPath(id, "card"))
	case ButtonBuildActions:
		return z.openDescription(transport.DescribeCharacterPath(id, "build_actions"))
	case ButtonAffinities:
		return z.openDescription(transport.AffinityPath(id))
	case ButtonInventory:
		if z.Inventory != nil {
			z.Inventory = nil
			return nil
		}
		z.openInventory()
	case ButtonInventoryStuff:
		if z.Inventory == nil || b.Index < 0 || b.Index >= len(z.Inventory.Stuff) {
			return nil
		}
		stuff := z.Inventory.Stuff[b.Index]
		if len(stuff.IDs) == 0 {
			return nil
		}
		return z.openDescription(transport.LookInventoryStuffPath(id, stuff.IDs[0]))
	case ButtonInventoryResource:
		if z.Inventory == nil || b.Index < 0 || b.Index >= len(z.Inventory.Resources) {
			return nil
		}
		return z.openDescription(transport.LookInventoryResourcePath(id, z.Inventory.Resources[b.Index].ID))
	case ButtonChat:
		z.ChatOpen = !z.ChatOpen
		if z.ChatOpen {
			z.State.Chat.MarkRead()
		}
	case ButtonQuickAction:
		return z.useQuickAction(b.Index)
	case ButtonWorld:
		return []Message{SetWorldEngine{Session: z.session, Player: z.State.Player}}
	case ButtonExit:
		return z.exit()
	}
	return nil
}

func (z *Zone) openDescription(url string) []Message {
	return []Message{SetLoadDescriptionEngine{
		Session: z.session,
		Request: DescriptionRequest{URL: url},
	}}
}

func (z *Zone) openInventory() {
	if z.inventory.inFlight() {
		return
	}
	z.inventory.start(z.session.Client.Inventory(z.State.Player.ID))
}

// exit просит сервер закрыть канал. Выход - по SERVER_PERMIT_CLOSE.
func (z *Zone) exit() []Message {
	if z.closing {
		return nil
	}
	z.closing = true
	if err := z.channel.Send(event.ClientWantClose{}); err != nil {
		logger.Log.WithError(err).Warn("Close request not sent, quitting")
		return []Message{Quit{}}
	}
	return nil
}

// --- ДВИЖЕНИЕ ---

func (z *Zone) walk(dir zone.Direction) {
	z.State.WalkPlayer(dir)
}

// --- БЫСТРЫЕ ДЕЙСТВИЯ ---

// useQuickAction - кнопка быстрого действия.
func (z *Zone) useQuickAction(i int) []Message {
	if i < 0 || i >= len(z.State.QuickActions) {
		return nil
	}
	qa := z.State.QuickActions[i]
	switch {
	case qa.ForceOpenDescription:
		return z.openDescription(qa.BaseURL)
	case qa.DirectAction:
		z.State.Deselect()
		z.requestQuickAction(qa.BaseURL, qa.UUID, "", nil, nil)
	default:
		if selected, ok := z.State.SelectedQuickAction(); ok && selected == i {
			z.State.Deselect()
			return nil
		}
		z.State.SelectQuickAction(i)
	}
	return nil
}

// clickTile: запрос кликов сервера, затем клетки выбранного действия.
// Клик мимо снимает выбор.
func (z *Zone) clickTile(row, col int32) {
	if rc, ok := z.State.UseRequestClick(); ok {
		z.send(event.ClickAction{
			ActionType:          rc.ActionType,
			ActionDescriptionID: rc.ActionDescriptionID,
			RowI:                int16(row),
			ColI:                int16(col),
		})
		return
	}

	action := z.State.Action
	if action == nil {
		return
	}
	i, ok := action.TileIndex(row, col)
	if !ok {
		z.State.Deselect()
		return
	}
	if z.State.Pending.Has(i) {
		return
	}
	correlationID := z.State.ArmExploitableTile(i)
	z.requestQuickAction(action.PostURL, action.UUID, correlationID, &row, &col)
}

func (z *Zone) requestQuickAction(baseURL, uuid, correlationID string, row, col *int32) {
	h := z.session.Client.QuickAction(baseURL, uuid, row, col)
	z.quickRequests = append(z.quickRequests, quickActionRequest{
		handle:        h,
		url:           baseURL,
		correlationID: correlationID,
	})
	logger.Log.WithFields(logrus.Fields{
		"action":         uuid,
		"request_id":     h.ID(),
		"correlation_id": correlationID,
	}).Info("Quick action requested")
}
