package debug

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/buxx/rollgui2-sub000/internal/engine"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.Discard()
	os.Exit(m.Run())
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestStoreTransitions(t *testing.T) {
	s := NewStore()
	if _, ok := s.Last(); ok {
		t.Fatal("Last() ok = true before any publish")
	}
	for i, kind := range []string{"root", "root", "load_zone", "zone", "zone"} {
		s.Publish(engine.Snapshot{Engine: kind, Frame: int64(i)})
	}

	got := s.Transitions()
	want := []Transition{{"root", "load_zone", 2}, {"load_zone", "zone", 3}}
	if len(got) != len(want) {
		t.Fatalf("Transitions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Transitions()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if s.Published() != 5 {
		t.Errorf("Published() = %d, want 5", s.Published())
	}
}

func TestStoreTransitionsBounded(t *testing.T) {
	s := NewStore()
	for i := 0; i < transitionsKept+10; i++ {
		kind := "root"
		if i%2 == 1 {
			kind = "error"
		}
		s.Publish(engine.Snapshot{Engine: kind, Frame: int64(i)})
	}
	got := s.Transitions()
	if len(got) != transitionsKept {
		t.Fatalf("Transitions() = %d, want %d", len(got), transitionsKept)
	}
	if last := got[len(got)-1]; last.Frame != int64(transitionsKept+9) {
		t.Errorf("last transition frame = %d, want %d", last.Frame, transitionsKept+9)
	}
}

func TestServerRoutes(t *testing.T) {
	store := NewStore()
	h := New("127.0.0.1:0", store).Handler()

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"health", "/health", http.StatusOK},
		{"version", "/version", http.StatusOK},
		{"snapshot before tick", "/debug/snapshot", http.StatusServiceUnavailable},
		{"transitions", "/debug/transitions", http.StatusOK},
		{"unknown", "/debug/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != tt.status {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.status)
			}
		})
	}

	store.Publish(engine.Snapshot{Engine: "zone", Frame: 42, CharacterID: "player", Zone: "3.4"})
	rec := get(t, h, "/debug/snapshot")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /debug/snapshot = %d, want 200", rec.Code)
	}
	if cors := rec.Header().Get("Access-Control-Allow-Origin"); cors != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", cors)
	}
	var body struct {
		Snapshot  engine.Snapshot `json:"snapshot"`
		Published int64           `json:"published"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if body.Snapshot.Engine != "zone" || body.Snapshot.Zone != "3.4" || body.Published != 1 {
		t.Errorf("snapshot = %+v, published %d", body.Snapshot, body.Published)
	}
}

func TestHub(t *testing.T) {
	h := NewHub()
	id, ch := h.Register()
	_, other := h.Register()
	if h.SubscriberCount() != 2 {
		t.Fatalf("SubscriberCount() = %d, want 2", h.SubscriberCount())
	}

	for i := 0; i < subscriberBuffer+5; i++ {
		h.Broadcast(engine.Snapshot{Frame: int64(i)})
	}
	if len(ch) != subscriberBuffer || len(other) != subscriberBuffer {
		t.Errorf("buffered = %d and %d, want %d (overflow dropped)", len(ch), len(other), subscriberBuffer)
	}
	if first := <-ch; first.Frame != 0 {
		t.Errorf("first snapshot frame = %d, want 0", first.Frame)
	}

	h.Unregister(id)
	h.Unregister(id)
	if h.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount() = %d, want 1", h.SubscriberCount())
	}
	for range ch {
	}
}

func TestStream(t *testing.T) {
	store := NewStore()
	srv := httptest.NewServer(New("", store).Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/debug/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for store.Hub().SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream subscriber not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	store.Publish(engine.Snapshot{Engine: "world", Frame: 7})
	if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	var got engine.Snapshot
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Engine != "world" || got.Frame != 7 {
		t.Errorf("snapshot = %+v, want world at frame 7", got)
	}

	conn.Close()
	deadline = time.Now().Add(time.Second)
	for store.Hub().SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber still registered after close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
