package zone

import (
	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/event"
	"github.com/buxx/rollgui2-sub000/pkg/api"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

// Reduce применяет событие канала зоны к состоянию и возвращает производные эффекты.
// frame - текущий кадр анимаций, от него отсчитывается окончание pop-анимаций.
// Обязательные поля уже проверены декодером, необязательные могут отсутствовать.
func Reduce(ev event.Event, s *State, frame int64) []Effect {
	switch e := ev.(type) {
	case event.ThereIsAround:
		return reduceThereIsAround(e, s)
	case event.NewBuild:
		return reduceNewBuild(e, s, frame)
	case event.RemoveBuild:
		s.RemoveBuildsAt(e.ZoneRowI, e.ZoneColI)
		return nil
	case event.StuffAppeared:
		s.PutStuff(api.Stuff{
			ID:       e.ID,
			StuffID:  e.StuffID,
			ZoneRowI: e.ZoneRowI,
			ZoneColI: e.ZoneColI,
			Classes:  e.Classes,
		})
		return nil
	case event.StuffRemoved:
		s.RemoveStuff(e.StuffID)
		return nil
	case event.ResourceAppeared:
		s.AddResource(api.Resource{ID: e.ResourceID, ZoneRowI: e.ZoneRowI, ZoneColI: e.ZoneColI})
		return nil
	case event.ResourceRemoved:
		s.RemoveResource(e.ResourceID, e.ZoneRowI, e.ZoneColI)
		return nil
	case event.ZoneTileReplace:
		if !s.Map.ReplaceTile(int32(e.RowI), int32(e.ColI), e.NewTileID) {
			logger.Log.WithFields(logrus.Fields{"row": e.RowI, "col": e.ColI}).Debug("Tile replace out of zone, ignored")
		}
		return nil
	case event.CharacterEnter:
		return reduceCharacterEnter(e, s)
	case event.CharacterExit:
		s.RemoveCharacter(e.CharacterID)
		return nil
	case event.CharacterSpritesheetChange:
		if c, ok := s.Characters[e.CharacterID]; ok {
			filename := e.SpritesheetFilename
			c.SpritesheetFilename = &filename
			s.Characters[e.CharacterID] = c
		}
		return nil
	case event.PlayerMove:
		s.MoveCharacter(e.CharacterID, e.ToRowI, e.ToColI)
		return nil
	case event.AnimatedCorpseMove:
		if s.Map.InBounds(e.ToRowI, e.ToColI) {
			if s.AnimatedCorpses == nil {
				s.AnimatedCorpses = make(map[int32]Point)
			}
			s.AnimatedCorpses[e.AnimatedCorpseID] = Point{e.ToRowI, e.ToColI}
		}
		return nil
	case event.NewChatMessage:
		s.Chat.Push(ChatMessage{Author: chatAuthor(e, s), Message: e.Message, System: e.System}, e.Silent)
		return nil
	case event.TopBarMessage:
		level := e.Level
		if level != event.TopBarError {
			level = event.TopBarNormal
		}
		s.TopBar = TopBar{Message: e.Message, Level: level}
		return nil
	case event.NewResumeText:
		return reduceResume(e, s)
	case event.ServerPermitClose:
		return []Effect{CloseAllowed{}}
	default:
		// Исходящие события, вернувшиеся эхом, состояние не меняют.
		return nil
	}
}

func reduceThereIsAround(e event.ThereIsAround, s *State) []Effect {
	s.QuickActions = e.QuickActions
	s.Around = Around{
		Stuff:     e.StuffCount,
		Resource:  e.ResourceCount,
		Build:     e.BuildCount,
		Character: e.CharacterCount,
	}
	if s.Action == nil {
		return nil
	}

	for _, qa := range s.QuickActions {
		if qa.BaseURL == s.Action.PostURL {
			// Клетки могли измениться, индексы ожидания при этом не трогаем.
			s.Action = NewAction(qa)
			return nil
		}
	}
	s.Action = nil
	s.Pending.Reset()
	return nil
}

func reduceNewBuild(e event.NewBuild, s *State, frame int64) []Effect {
	b := e.Build
	if !s.PutBuild(b) {
		logger.Log.WithFields(logrus.Fields{"build": b.ID, "row": b.RowI, "col": b.ColI}).Warn("New build out of zone, ignored")
		return nil
	}

	s.ClearPendingAt("", b.RowI, b.ColI)

	var tileID string
	switch {
	case e.ProducedStuffID != nil:
		tileID = *e.ProducedStuffID
	case e.ProducedResourceID != nil:
		tileID = *e.ProducedResourceID
	default:
		return nil
	}
	return []Effect{SpawnPopAnimation{
		TileID:         tileID,
		Row:            b.RowI,
		Col:            b.ColI,
		ExpiresAtFrame: frame + PopDuration,
	}}
}

func reduceCharacterEnter(e event.CharacterEnter, s *State) []Effect {
	c, known := s.Characters[e.CharacterID]
	if !known {
		c = api.Character{
			ID:        e.CharacterID,
			WorldRowI: s.Player.WorldRowI,
			WorldColI: s.Player.WorldColI,
		}
	}
	c.ZoneRowI, c.ZoneColI = e.ZoneRowI, e.ZoneColI
	if e.SpritesheetFilename != nil {
		c.SpritesheetFilename = e.SpritesheetFilename
	}
	s.PutCharacter(c)
	return nil
}

func chatAuthor(e event.NewChatMessage, s *State) *string {
	if e.System || e.CharacterID == nil {
		return nil
	}
	if c, ok := s.Characters[*e.CharacterID]; ok && c.Name != "" {
		name := c.Name
		return &name
	}
	if *e.CharacterID == s.Player.ID && s.Player.Name != "" {
		name := s.Player.Name
		return &name
	}
	id := *e.CharacterID
	return &id
}

func reduceResume(e event.NewResumeText, s *State) []Effect {
	resume, err := ParseResume(e.Resume)
	if err != nil {
		logger.Log.WithError(err).Warn("Unable to read character resume")
		return []Effect{ErrorLog("Erreur de lecture du résumé : " + err.Error())}
	}
	previous := s.Resume
	s.Resume = resume
	if previous == nil {
		return nil
	}
	if icons := previous.ChangedIcons(resume); len(icons) > 0 {
		return []Effect{BlinkIcons{Icons: icons}}
	}
	return nil
}

// ApplyQuickActionResponse разбирает ответ на быстрое действие.
// correlationID - id набора ожидания, под которым ушел запрос.
func ApplyQuickActionResponse(d api.Description, correlationID string, s *State) []Effect {
	var effects []Effect

	if d.QuickActionResponse != nil && *d.QuickActionResponse != "" {
		level := LogInfo
		if d.IsQuickError || d.NotEnoughAP {
			level = LogError
		}
		effects = append(effects, UserLog{Level: level, Message: *d.QuickActionResponse})
	} else if d.NotEnoughAP {
		effects = append(effects, ErrorLog("Pas assez de points d'actions"))
	}

	if pos := d.ExploitableSuccess; pos != nil {
		s.ClearPendingAt(correlationID, pos.Row(), pos.Col())
	}
	if d.IsQuickError || d.NotEnoughAP {
		if correlationID == s.Pending.CorrelationID {
			s.Pending.Reset()
		}
	}
	if dep := d.DepositSuccess; dep != nil {
		effects = append(effects, SpawnDropAnimation{
			Classes: dep.Classes,
			Row:     dep.Position.Row(),
			Col:     dep.Position.Col(),
		})
	}
	return effects
}
