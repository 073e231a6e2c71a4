package gamesession

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// GameStartData never carries the code, the analytics of a session are
// visible before the reward is revealed.
type GameStartData struct {
	GameKey string `structs:"game_key" mapstructure:"game_key"`
}

type GameCompleteData struct {
	Reward string `structs:"reward" mapstructure:"reward"`
	Code   string `structs:"code" mapstructure:"code"`
	IsWin  bool   `structs:"is_win" mapstructure:"is_win"`
}

type GameWinData struct {
	Reward string `structs:"reward" mapstructure:"reward"`
}

type FormSubmitData struct {
	Reward   string `structs:"reward" mapstructure:"reward"`
	ResultID string `structs:"result_id" mapstructure:"result_id"`
}

type FormSubmitErrorData struct {
	Error string `structs:"error" mapstructure:"error"`
}

type WhatsAppShareData struct {
	Reward string `structs:"reward" mapstructure:"reward"`
}

// GameEvent is the message published for every tracked event.
type GameEvent struct {
	SessionID string `json:"session_id"`
	Event     Event  `json:"event"`
}

func SerializeGameEvent(sessionID string, e Event) ([]byte, error) {
	return json.Marshal(GameEvent{SessionID: sessionID, Event: e})
}

func DeserializeGameEvent(b []byte) (GameEvent, error) {
	var e GameEvent
	err := json.Unmarshal(b, &e)
	return e, err
}

// DecodePayload converts the data of an event back to its typed payload.
func DecodePayload(e Event) (any, error) {
	var payload any
	switch e.Type {
	case EventGameStart:
		payload = &GameStartData{}
	case EventGameComplete:
		payload = &GameCompleteData{}
	case EventGameWin:
		payload = &GameWinData{}
	case EventFormSubmit:
		payload = &FormSubmitData{}
	case EventFormSubmitError:
		payload = &FormSubmitErrorData{}
	case EventWhatsAppShare:
		payload = &WhatsAppShareData{}
	default:
		return nil, fmt.Errorf("invalid game event type %s", e.Type)
	}

	if err := mapstructure.Decode(e.Data, payload); err != nil {
		return nil, err
	}

	return payload, nil
}
