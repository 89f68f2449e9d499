package engine

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/recording"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

// recordingClient записывает входящие события каждого канала зоны.
type recordingClient struct {
	Client
	service *recording.Service
	now     func() time.Time
}

// WithRecording оборачивает клиента: канал зоны при закрытии сохраняет
// свои события в каталог service.
func WithRecording(c Client, service *recording.Service) Client {
	return recordingClient{Client: c, service: service, now: time.Now}
}

func (c recordingClient) WithCredentials(login, password string) Client {
	return recordingClient{Client: c.Client.WithCredentials(login, password), service: c.service, now: c.now}
}

func (c recordingClient) DialZone(worldRow, worldCol int32, characterID string) ZoneChannel {
	return &recordingChannel{
		ZoneChannel: c.Client.DialZone(worldRow, worldCol, characterID),
		service:     c.service,
		now:         c.now,
		session:     recording.NewSession(worldRow, worldCol, characterID, c.now()),
	}
}

type recordingChannel struct {
	ZoneChannel
	service *recording.Service
	now     func() time.Time
	session *recording.Session
	saved   bool
}

func (c *recordingChannel) Drain(max int) [][]byte {
	raws := c.ZoneChannel.Drain(max)
	if len(raws) > 0 {
		at := c.now()
		for _, raw := range raws {
			c.session.Add(at, raw)
		}
	}
	return raws
}

func (c *recordingChannel) Close() {
	c.ZoneChannel.Close()
	if c.saved || len(c.session.Events) == 0 {
		return
	}
	c.saved = true

	fields := logrus.Fields{
		"zone":   c.session.WorldRow,
		"col":    c.session.WorldCol,
		"events": len(c.session.Events),
	}
	path, err := c.service.Save(c.session)
	if err != nil {
		logger.Log.WithFields(fields).WithError(err).Warn("Zone recording not saved")
		return
	}
	logger.Log.WithFields(fields).WithField("path", path).Info("Zone recording saved")
}
