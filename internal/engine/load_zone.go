package engine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/transport"
	"github.com/buxx/rollgui2-sub000/internal/zone"
	"github.com/buxx/rollgui2-sub000/pkg/api"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

const loadZoneTimeoutMessage = "Erreur : chargement de la zone trop long"

// LoadZone загружает снимок зоны.
// Персонаж и определения тайлов запрашиваются сразу, остальные пять запросов -
// после персонажа (нужны его мировые координаты). Переход в Zone - только когда
// пришли все шесть запросов снимка и тайлы.
type LoadZone struct {
	session       Session
	settings      Settings
	requestClicks *api.RequestClicks

	player     fetch[api.Character]
	tiles      fetch[[]api.Tile]
	source     fetch[api.ZoneSource]
	characters fetch[[]api.Character]
	resources  fetch[[]api.Resource]
	stuffs     fetch[[]api.Stuff]
	builds     fetch[[]api.Build]

	started time.Time
}

func NewLoadZone(session Session, settings Settings, requestClicks *api.RequestClicks) *LoadZone {
	l := &LoadZone{
		session:       session,
		settings:      settings,
		requestClicks: requestClicks,
		player:        newFetch[api.Character]("player"),
		tiles:         newFetch[[]api.Tile]("tiles"),
		source:        newFetch[api.ZoneSource]("zone"),
		characters:    newFetch[[]api.Character]("characters"),
		resources:     newFetch[[]api.Resource]("resources"),
		stuffs:        newFetch[[]api.Stuff]("stuff"),
		builds:        newFetch[[]api.Build]("builds"),
	}
	l.player.start(session.Client.Character(session.CharacterID))
	l.tiles.start(session.Client.Tiles())
	logger.Log.WithField("character_id", session.CharacterID).Info("Loading zone")
	return l
}

func (l *LoadZone) Kind() Kind { return KindLoadZone }

// Progress - сколько из семи запросов завершено.
func (l *LoadZone) Progress() (done, total int) {
	for _, ok := range []bool{
		l.player.done(), l.tiles.done(), l.source.done(), l.characters.done(),
		l.resources.done(), l.stuffs.done(), l.builds.done(),
	} {
		if ok {
			done++
		}
	}
	return done, 7
}

// InFlight - число запросов в полете (для debug снимка).
func (l *LoadZone) InFlight() int {
	n := 0
	for _, ok := range []bool{
		l.player.inFlight(), l.tiles.inFlight(), l.source.inFlight(), l.characters.inFlight(),
		l.resources.inFlight(), l.stuffs.inFlight(), l.builds.inFlight(),
	} {
		if ok {
			n++
		}
	}
	return n
}

func (l *LoadZone) Tick(f Frame, inputs []Input) []Message {
	if l.started.IsZero() {
		l.started = f.Now
	}

	for _, in := range inputs {
		if k, ok := in.(KeyPress); ok && k.Key == KeyEscape {
			return []Message{SetRootEngine{}}
		}
	}

	// 1. Персонаж: ошибка разбора - возможно, персонаж умер.
	if err := l.player.poll(); err != nil {
		if isDecodeError(err) {
			logger.Log.WithError(err).Warn("Player does not decode, checking death")
			return []Message{SetCheckDeadEngine{Session: l.session}}
		}
		return fail(reasonOf(err))
	}

	// 2. Запросы, зависящие от координат персонажа.
	if l.player.done() && !l.source.started() {
		p := l.player.value
		c := l.session.Client
		l.source.start(c.Zone(p.WorldRowI, p.WorldColI))
		l.characters.start(c.ZoneCharacters(p.WorldRowI, p.WorldColI))
		l.resources.start(c.ZoneResources(p.WorldRowI, p.WorldColI))
		l.stuffs.start(c.ZoneStuff(p.WorldRowI, p.WorldColI))
		l.builds.start(c.ZoneBuilds(p.WorldRowI, p.WorldColI))
	}

	// 3. Остальные ответы.
	for _, poll := range []func() error{
		l.tiles.poll, l.source.poll, l.characters.poll,
		l.resources.poll, l.stuffs.poll, l.builds.poll,
	} {
		if err := poll(); err != nil {
			return fail(reasonOf(err))
		}
	}
	if l.builds.done() {
		if err := api.ValidateAll(*l.builds.value); err != nil {
			return fail(fmt.Sprintf("Erreur : %v", err))
		}
	}

	if l.ready() {
		return l.finish()
	}

	if l.settings.LoadZoneTimeout > 0 && f.Now.Sub(l.started) > l.settings.LoadZoneTimeout {
		done, total := l.Progress()
		logger.Log.WithFields(logrus.Fields{
			"done":  done,
			"total": total,
			"error": transport.ErrTimeout,
		}).Error("Zone loading timed out")
		return fail(loadZoneTimeoutMessage)
	}
	return nil
}

func (l *LoadZone) ready() bool {
	return l.player.done() && l.tiles.done() && l.source.done() && l.characters.done() &&
		l.resources.done() && l.stuffs.done() && l.builds.done()
}

func (l *LoadZone) finish() []Message {
	snap := zone.Snapshot{
		Player:     *l.player.value,
		Source:     *l.source.value,
		Tiles:      *l.tiles.value,
		Characters: *l.characters.value,
		Resources:  *l.resources.value,
		Stuffs:     *l.stuffs.value,
		Builds:     *l.builds.value,
	}
	state, err := zone.NewState(snap, l.settings.TileWidth, l.settings.TileHeight)
	if err != nil {
		return fail("Erreur : " + err.Error())
	}
	state.RequestClicks = l.requestClicks
	logger.Log.WithFields(logrus.Fields{
		"zone":       fmt.Sprintf("%d.%d", snap.Player.WorldRowI, snap.Player.WorldColI),
		"characters": len(snap.Characters),
		"builds":     state.BuildCount(),
	}).Info("Zone loaded")
	return []Message{SetZoneEngine{Session: l.session, State: state}}
}
