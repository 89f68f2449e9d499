package engine

import (
	"github.com/buxx/rollgui2-sub000/pkg/api"
)

// World - карта мира. Клетка игрока мигает по тикам.
type World struct {
	session Session
	Player  api.Character

	world fetch[api.WorldAsCharacter]
	tick  int64
}

func NewWorld(session Session, player api.Character) *World {
	w := &World{session: session, Player: player, world: newFetch[api.WorldAsCharacter]("world")}
	w.world.start(session.Client.WorldAsCharacter())
	return w
}

func (w *World) Kind() Kind { return KindWorld }

// Rows - строки тайлов мира, nil пока карта не пришла.
func (w *World) Rows() [][]string {
	if !w.world.done() {
		return nil
	}
	return w.world.value.Rows
}

func (w *World) Loading() bool {
	return w.world.inFlight()
}

// PlayerVisible - фаза мигания клетки игрока.
func (w *World) PlayerVisible() bool {
	return w.tick%2 == 0
}

func (w *World) Tick(f Frame, inputs []Input) []Message {
	w.tick = f.Tick
	for _, in := range inputs {
		switch in := in.(type) {
		case KeyPress:
			if in.Key == KeyEscape {
				return w.back()
			}
		case Button:
			if in.ID == ButtonBack || in.ID == ButtonClose {
				return w.back()
			}
		}
	}
	if err := w.world.poll(); err != nil {
		return fail(reasonOf(err))
	}
	return nil
}

func (w *World) back() []Message {
	return []Message{SetLoadZoneEngine{Session: w.session}}
}
