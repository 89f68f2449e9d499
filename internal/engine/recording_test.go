package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/buxx/rollgui2-sub000/internal/event"
	"github.com/buxx/rollgui2-sub000/internal/recording"
)

func TestRecordingClient(t *testing.T) {
	dir := t.TempDir()
	svc, err := recording.NewService(dir)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	fake := newFakeClient()
	client := WithRecording(fake, svc).WithCredentials("bob", "secret")
	if fake.creds != "bob:secret" {
		t.Errorf("credentials = %q, want bob:secret", fake.creds)
	}

	ch := client.DialZone(3, 4, "player")
	fake.channel.push(event.ServerPermitClose{})
	fake.channel.push(event.CharacterExit{CharacterID: "c1"})
	if raws := ch.Drain(drainPerTick); len(raws) != 2 {
		t.Fatalf("Drain() = %d events, want 2", len(raws))
	}
	ch.Close()
	ch.Close()
	if !fake.channel.closed {
		t.Error("inner channel not closed")
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.rgzr"))
	if err != nil || len(files) != 1 {
		t.Fatalf("recordings = %v (%v), want one file", files, err)
	}
	s, err := svc.Load(files[0])
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.CharacterID != "player" || s.WorldRow != 3 || len(s.Events) != 2 {
		t.Errorf("session = %+v", s)
	}
}

func TestRecordingSkipsEmptyZone(t *testing.T) {
	dir := t.TempDir()
	svc, err := recording.NewService(dir)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	ch := WithRecording(newFakeClient(), svc).DialZone(0, 0, "player")
	ch.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("files = %d, want none for a zone without events", len(entries))
	}
}
