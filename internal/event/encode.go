package event

import (
	"encoding/json"
	"fmt"
)

// Envelope - конверт канала зоны.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Encode собирает конверт обратно. Варианты без полей пишутся как "data": {}.
func Encode(ev Event) ([]byte, error) {
	if ev == nil {
		return nil, fmt.Errorf("encode event: nil event")
	}
	var data any = ev
	switch ev.(type) {
	case ClientWantClose, ClientRequireResumeText, ServerPermitClose:
		data = struct{}{}
	}
	raw, err := marshalJSON(Envelope{Type: ev.Tag(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", ev.Tag(), err)
	}
	return raw, nil
}

// MustEncode для тестов и фикстур.
func MustEncode(ev Event) []byte {
	raw, err := Encode(ev)
	if err != nil {
		panic(err)
	}
	return raw
}

func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Outbound - варианты, которые клиент сам отправляет серверу.
func Outbound() []Event {
	return []Event{
		PlayerMove{},
		ClientRequireAround{},
		ClickAction{},
		ClientRequireResumeText{},
		ClientWantClose{},
	}
}
