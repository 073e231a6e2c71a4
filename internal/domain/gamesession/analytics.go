package gamesession

import (
	"time"

	"github.com/fatih/structs"
	mathutil "github.com/pkg/math"
	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/pkg/enum"
)

const defaultAnalyticsSize = 100

type EventType string

var (
	EventGameStart       = enum.New(EventType("game_start"), "game_start")
	EventGameComplete    = enum.New(EventType("game_complete"), "game_complete")
	EventGameWin         = enum.New(EventType("game_win"), "game_win")
	EventFormSubmit      = enum.New(EventType("form_submit"), "form_submit")
	EventFormSubmitError = enum.New(EventType("form_submit_error"), "form_submit_error")
	EventWhatsAppShare   = enum.New(EventType("whatsapp_share"), "whatsapp_share")
)

type Event struct {
	Type        EventType       `json:"type"`
	Game        entity.GameName `json:"game,omitempty"`
	Timestamp   int64           `json:"timestamp"`
	SessionTime int64           `json:"sessionTime"`
	Data        map[string]any  `json:"data,omitempty"`
}

type AnalyticsSummary struct {
	SessionDuration int64   `json:"sessionDuration"`
	TotalEvents     int     `json:"totalEvents"`
	Events          []Event `json:"events"`
	GameStarts      int     `json:"gameStarts"`
	GameCompletions int     `json:"gameCompletions"`
	Wins            int     `json:"wins"`
	FormSubmissions int     `json:"formSubmissions"`
}

// Analytics keeps the most recent events of a session.
type Analytics struct {
	SessionStart int64   `json:"sessionStart"`
	Size         int     `json:"size"`
	Events       []Event `json:"events"`
}

func NewAnalytics(start time.Time, size int) *Analytics {
	if size <= 0 {
		size = defaultAnalyticsSize
	}

	return &Analytics{
		SessionStart: start.UnixMilli(),
		Size:         size,
		Events:       []Event{},
	}
}

// Track appends an event whose data is the field map of payload. payload
// must be a struct or nil.
func (a *Analytics) Track(eventType EventType, game entity.GameName, payload any, now time.Time) Event {
	event := Event{
		Type:        eventType,
		Game:        game,
		Timestamp:   now.UnixMilli(),
		SessionTime: now.UnixMilli() - a.SessionStart,
	}

	if payload != nil {
		event.Data = structs.Map(payload)
	}

	a.Events = append(a.Events, event)
	if over := len(a.Events) - a.Size; over > 0 {
		a.Events = append([]Event(nil), a.Events[over:]...)
	}

	return event
}

func (a *Analytics) Summary(now time.Time) AnalyticsSummary {
	summary := AnalyticsSummary{
		SessionDuration: mathutil.MaxInt64(now.UnixMilli()-a.SessionStart, 0),
		TotalEvents:     len(a.Events),
		Events:          a.Events,
	}

	for _, e := range a.Events {
		switch e.Type {
		case EventGameStart:
			summary.GameStarts++
		case EventGameComplete:
			summary.GameCompletions++
		case EventGameWin:
			summary.Wins++
		case EventFormSubmit:
			summary.FormSubmissions++
		}
	}

	return summary
}
