package gamesession

import (
	"time"

	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/pkg/enum"
	"github.com/questx-lab/spinwin/pkg/errorx"
)

type State string

var (
	StateIdle          = enum.New(State("idle"), "idle")
	StatePlaying       = enum.New(State("playing"), "playing")
	StateAwaitingClaim = enum.New(State("awaiting_claim"), "awaiting_claim")
	StateSubmitted     = enum.New(State("submitted"), "submitted")
)

var (
	ErrAlreadyPlaying   = errorx.New(errorx.AlreadyPlaying, "A game is already in progress")
	ErrNothingToClaim   = errorx.New(errorx.NothingToClaim, "There is no reward to claim")
	ErrAlreadySubmitted = errorx.New(errorx.AlreadyExists, "The reward was already claimed")
)

func errInvalidState(action string, state State) error {
	return errorx.New(errorx.InvalidState, "Cannot %s while the session is %s", action, state)
}

// Session is the per-player state machine:
//
//	Idle -> Playing -> AwaitingClaim -> Submitted
//	any state -> Idle on Reset
type Session struct {
	ID        string          `json:"id"`
	State     State           `json:"state"`
	Game      entity.GameName `json:"game,omitempty"`
	Reward    string          `json:"reward,omitempty"`
	Code      string          `json:"code,omitempty"`
	ResultID  string          `json:"resultId,omitempty"`
	StartedAt int64           `json:"startedAt,omitempty"`
	Analytics *Analytics      `json:"analytics"`
}

func NewSession(id string, now time.Time, analyticsSize int) *Session {
	return &Session{
		ID:        id,
		State:     StateIdle,
		Analytics: NewAnalytics(now, analyticsSize),
	}
}

func (s *Session) Start(game entity.GameName, reward, code string, now time.Time) error {
	switch s.State {
	case StateIdle:
	case StatePlaying:
		return ErrAlreadyPlaying
	default:
		return errInvalidState("start a game", s.State)
	}

	s.State = StatePlaying
	s.Game = game
	s.Reward = reward
	s.Code = code
	s.ResultID = ""
	s.StartedAt = now.UnixMilli()
	return nil
}

func (s *Session) Reveal() error {
	if s.State != StatePlaying {
		return errInvalidState("reveal the reward", s.State)
	}

	s.State = StateAwaitingClaim
	return nil
}

func (s *Session) IsWin() bool {
	return s.Reward != "" && s.Reward != entity.NoWin
}

// CanSubmit reports why the reward cannot be claimed, nil when it can.
func (s *Session) CanSubmit() error {
	switch s.State {
	case StateAwaitingClaim:
	case StateSubmitted:
		return ErrAlreadySubmitted
	default:
		return errInvalidState("claim the reward", s.State)
	}

	if !s.IsWin() {
		return ErrNothingToClaim
	}

	return nil
}

func (s *Session) Submit(resultID string) error {
	if err := s.CanSubmit(); err != nil {
		return err
	}

	s.State = StateSubmitted
	s.ResultID = resultID
	return nil
}

// Reset keeps the analytics of the session.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Game = ""
	s.Reward = ""
	s.Code = ""
	s.ResultID = ""
	s.StartedAt = 0
}
