package main

import (
	"errors"
	"flag"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/event"
	"github.com/buxx/rollgui2-sub000/internal/recording"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

func init() {
	logger.Init()
}

// replay читает записи зоны и проверяет, что каждое событие декодируется.
func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		logger.Log.Fatal("usage: replay FILE.rgzr...")
	}

	failed := false
	for _, path := range flag.Args() {
		if err := replayFile(path); err != nil {
			logger.Log.WithField("path", path).WithError(err).Error("Replay failed")
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// Summary - итог проигрывания одной записи.
type Summary struct {
	Events    int
	Undecoded int
	Tags      map[string]int
}

func replayFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	session, err := recording.Read(f)
	if err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"zone":      session.WorldRow,
		"col":       session.WorldCol,
		"character": session.CharacterID,
		"started":   session.Started,
		"events":    len(session.Events),
	}).Info("💿 Replaying zone recording")

	summary := replay(session)
	tags := make([]string, 0, len(summary.Tags))
	for tag := range summary.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		logger.Log.WithFields(logrus.Fields{"tag": tag, "count": summary.Tags[tag]}).Info("Events")
	}
	if summary.Undecoded > 0 {
		return errors.New("recording has undecodable events")
	}
	return nil
}

func replay(session *recording.Session) Summary {
	summary := Summary{Tags: make(map[string]int)}
	for _, ev := range session.Events {
		summary.Events++
		decoded, err := event.Decode(ev.Payload)
		if err != nil {
			summary.Undecoded++
			logger.Log.WithFields(logrus.Fields{"offset": ev.Offset}).WithError(err).Warn("Event not decoded")
			continue
		}
		summary.Tags[decoded.Tag()]++
		logger.Log.WithFields(logrus.Fields{"offset": ev.Offset, "tag": decoded.Tag()}).Debug("Event")
	}
	return summary
}
