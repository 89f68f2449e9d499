package zone

import (
	"os"
	"testing"

	"github.com/buxx/rollgui2-sub000/pkg/api"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.Discard()
	os.Exit(m.Run())
}

const testSource = "::LEGEND\n# ROCK\n::GEO\n⁖⁖⁖⁖⁖\n⁖#⁖⁖⁖\n⁖⁖⁖~⁖\n⁖⁖⁖⁖⁖\n"

func strPtr(s string) *string { return &s }

// newTestState - зона 4x5 из грязи, скала в 1.1, вода в 2.3, игрок в 0.0.
func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewState(Snapshot{
		Player: api.Character{ID: "player", Name: "Bob", WorldRowI: 3, WorldColI: 4},
		Source: api.ZoneSource{RawSource: testSource, ZoneTypeID: "PLAIN"},
		Tiles: []api.Tile{
			{ID: "DIRT", Traversable: map[string]bool{api.TransportWalking: true}},
			{ID: "ROCK", Traversable: map[string]bool{api.TransportWalking: false}},
			{ID: "SEA_WATER", Traversable: map[string]bool{}},
		},
	}, 32, 32)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	return s
}
