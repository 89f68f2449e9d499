package engine

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/animation"
	"github.com/buxx/rollgui2-sub000/internal/description"
	"github.com/buxx/rollgui2-sub000/internal/event"
	"github.com/buxx/rollgui2-sub000/internal/transport"
	"github.com/buxx/rollgui2-sub000/internal/zone"
	"github.com/buxx/rollgui2-sub000/pkg/api"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

// drainPerTick - сколько событий канала обрабатывается за тик.
const drainPerTick = 64

// quickActionRequest - запрос быстрого действия и набор ожидания, под которым он ушел.
type quickActionRequest struct {
	handle        *transport.Handle
	url           string
	correlationID string
}

// Zone - живая игра в зоне.
// Порядок тика: ввод, ответы HTTP, события канала, затем эффекты и кадры.
// Эффекты применяются только после того, как все запросы тика опрошены.
type Zone struct {
	session  Session
	settings Settings
	channel  ZoneChannel

	State      *zone.State
	Animations animation.Set
	Blinks     map[zone.ResumeIcon]*animation.Blink
	Logs       []zone.UserLog

	Inventory *api.Inventory
	ChatOpen  bool

	quickRequests []quickActionRequest
	inventory     fetch[api.Inventory]

	closing bool
}

// NewZone подключает канал зоны и просит у сервера окружение и сводку.
func NewZone(session Session, settings Settings, state *zone.State) *Zone {
	p := state.Player
	z := &Zone{
		session:   session,
		settings:  settings,
		channel:   session.Client.DialZone(p.WorldRowI, p.WorldColI, p.ID),
		State:     state,
		Blinks:    make(map[zone.ResumeIcon]*animation.Blink),
		inventory: newFetch[api.Inventory]("inventory"),
	}
	z.send(event.ClientRequireAround{ZoneRowI: p.ZoneRowI, ZoneColI: p.ZoneColI, CharacterID: p.ID})
	z.send(event.ClientRequireResumeText{})
	return z
}

func (z *Zone) Kind() Kind { return KindZone }

// Close закрывает канал при смене экрана.
func (z *Zone) Close() {
	z.channel.Close()
}

// Closing - игрок нажал выход, ждем разрешения сервера.
func (z *Zone) Closing() bool {
	return z.closing
}

func (z *Zone) InventoryLoading() bool {
	return z.inventory.inFlight()
}

// InFlight - число HTTP запросов в полете.
func (z *Zone) InFlight() int {
	n := len(z.quickRequests)
	if z.inventory.inFlight() {
		n++
	}
	return n
}

func (z *Zone) Tick(f Frame, inputs []Input) []Message {
	// 1. Ввод
	for _, in := range inputs {
		if msgs := z.handle(in); len(msgs) > 0 {
			return msgs
		}
	}

	// 2. Ответы HTTP
	effects, msgs := z.pollRequests()
	if len(msgs) > 0 {
		return msgs
	}

	// 3. События канала
	effects = append(effects, z.drain(f.Frame)...)

	// 4. Эффекты
	if msgs := z.apply(effects, f.Frame); len(msgs) > 0 {
		return msgs
	}

	// 5. Кадры
	for i := f.Frames - 1; i >= 0; i-- {
		z.step(f.Frame - int64(i))
	}

	// 6. Канал
	if z.channel.State() == transport.ChannelClosed {
		if z.closing {
			return []Message{Quit{}}
		}
		return fail("Connexion au serveur perdue : " + transport.Message(z.channel.Err()))
	}
	return nil
}

func (z *Zone) send(ev event.Event) {
	if err := z.channel.Send(ev); err != nil {
		logger.Log.WithFields(logrus.Fields{"tag": ev.Tag(), "error": err}).Warn("Zone event not sent")
	}
}

// --- ОТВЕТЫ ---

func (z *Zone) pollRequests() ([]zone.Effect, []Message) {
	var effects []zone.Effect
	var msgs []Message

	kept := z.quickRequests[:0]
	for _, req := range z.quickRequests {
		res, ok := req.handle.Poll()
		if !ok {
			kept = append(kept, req)
			continue
		}
		e, m := z.quickActionResult(req, res)
		effects = append(effects, e...)
		msgs = append(msgs, m...)
	}
	z.quickRequests = kept

	if err := z.inventory.poll(); err != nil {
		effects = append(effects, zone.ErrorLog(reasonOf(err)))
	}
	if z.inventory.done() {
		z.Inventory = z.inventory.value
		z.inventory = newFetch[api.Inventory]("inventory")
	}
	return effects, msgs
}

func (z *Zone) quickActionResult(req quickActionRequest, res transport.Result) ([]zone.Effect, []Message) {
	if res.Err != nil {
		if req.correlationID != "" && req.correlationID == z.State.Pending.CorrelationID {
			z.State.Pending.Reset()
		}
		return []zone.Effect{zone.ErrorLog(transport.Message(res.Err))}, nil
	}

	var d api.Description
	if err := event.DecodeDocument("quick_action", res.Body, &d); err != nil {
		return []zone.Effect{zone.ErrorLog(err.Error())}, nil
	}
	if d.ReloadZone {
		return nil, []Message{SetLoadZoneEngine{Session: z.session}}
	}
	if d.IsQuickActionResponse() {
		effects := zone.ApplyQuickActionResponse(d, req.correlationID, z.State)
		z.send(event.ClientRequireResumeText{})
		if d.ReloadInventory && z.Inventory != nil {
			z.openInventory()
		}
		return effects, nil
	}

	// Полноценная страница вместо короткого ответа.
	page, err := description.NewPage(d, req.url)
	if err != nil {
		return []zone.Effect{zone.ErrorLog(err.Error())}, nil
	}
	return nil, []Message{SetDescriptionEngine{Session: z.session, Page: page}}
}

// --- КАНАЛ ---

// drain декодирует и применяет накопленные события. Ошибка одного события
// попадает в журнал и не мешает следующим.
func (z *Zone) drain(frame int64) []zone.Effect {
	var effects []zone.Effect
	for _, raw := range z.channel.Drain(drainPerTick) {
		ev, err := event.Decode(raw)
		if err != nil {
			fields := logrus.Fields{"error": err}
			var de *event.DecodeError
			if errors.As(err, &de) {
				fields["tag"] = de.Tag
				fields["field"] = de.Field
			}
			logger.Log.WithFields(fields).Warn("Zone event decode failed")
			effects = append(effects, zone.ErrorLog("Erreur de lecture d'un événement : "+err.Error()))
			continue
		}
		effects = append(effects, zone.Reduce(ev, z.State, frame)...)
	}
	return effects
}

// --- ЭФФЕКТЫ ---

func (z *Zone) apply(effects []zone.Effect, frame int64) []Message {
	var msgs []Message
	for _, effect := range effects {
		switch e := effect.(type) {
		case zone.SpawnPopAnimation:
			z.Animations.Add(animation.NewPop(e.TileID, e.Row, e.Col, e.ExpiresAtFrame))
		case zone.SpawnDropAnimation:
			z.Animations.Add(animation.NewDrop(tileForClasses(e.Classes), e.Row, e.Col))
		case zone.UserLog:
			z.pushLog(e)
		case zone.BlinkIcons:
			for _, icon := range e.Icons {
				z.Blinks[icon] = animation.NewBlink(string(icon))
			}
		case zone.CloseAllowed:
			if z.closing {
				logger.Log.Info("Server permits close")
				msgs = append(msgs, Quit{})
			}
		}
	}
	return msgs
}

func (z *Zone) pushLog(l zone.UserLog) {
	logger.Log.WithField("level", l.Level.String()).Info(l.Message)
	z.Logs = append(z.Logs, l)
	if over := len(z.Logs) - zone.DisplayUserLogCount; over > 0 {
		z.Logs = append(z.Logs[:0], z.Logs[over:]...)
	}
}

// tileForClasses - последний класс самый точный.
func tileForClasses(classes []string) string {
	if len(classes) == 0 {
		return zone.TileUnknown
	}
	return classes[len(classes)-1]
}

// --- КАДРЫ ---

func (z *Zone) step(frame int64) {
	if to, arrived := z.State.StepPlayer(); arrived {
		z.arrive(to)
	}
	z.Animations.Update(frame)
	for icon, b := range z.Blinks {
		if b.Update(frame) {
			delete(z.Blinks, icon)
		}
	}
}

// arrive - игрок дошел до клетки: позиция подтверждается серверу.
func (z *Zone) arrive(to zone.Point) {
	id := z.State.Player.ID
	z.send(event.PlayerMove{ToRowI: to.Row, ToColI: to.Col, CharacterID: id})
	z.send(event.ClientRequireAround{ZoneRowI: to.Row, ZoneColI: to.Col, CharacterID: id})
}
