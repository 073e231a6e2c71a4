package gamesession

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/internal/domain/ledger"
	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/pubsub"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

// Ledger is the part of the reward ledger used by player sessions.
type Ledger interface {
	IsCodeUnique(ctx context.Context, code string) bool
	GetGameSettings(ctx context.Context, key entity.GameKey) *entity.GameSetting
	Append(ctx context.Context, input ledger.GameResultInput) (*entity.GameResult, error)
}

type ClaimInput struct {
	Name      string
	WhatsApp  string
	IPAddress string
	UserAgent string
}

// Manager runs the session operations. Operations on the same session id
// never interleave.
type Manager struct {
	store     Store
	ledger    Ledger
	publisher pubsub.Publisher
	draw      Drawer
	now       func() time.Time
}

// NewManager returns a Manager. publisher may be nil, events are only kept in
// the session analytics in that case.
func NewManager(store Store, ledger Ledger, publisher pubsub.Publisher) *Manager {
	return &Manager{
		store:     store,
		ledger:    ledger,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithDrawer replaces the random source of reward selection.
func (m *Manager) WithDrawer(draw Drawer) *Manager {
	m.draw = draw
	return m
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	session, err := m.store.Get(ctx, id)
	if errors.Is(err, errSessionNotFound) {
		return NewSession(id, m.now(), xcontext.Configs(ctx).Game.AnalyticsSize), nil
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get session %s: %v", id, err)
		return nil, errorx.Unknown
	}

	return session, nil
}

func (m *Manager) Start(ctx context.Context, id string, game entity.GameName) (*Session, error) {
	return m.update(ctx, id, true, func(session *Session, track tracker) error {
		setting := m.ledger.GetGameSettings(ctx, game.Key())
		rewards := entity.DefaultRewards(game.Key())
		if setting != nil {
			if !setting.Enabled {
				return errorx.New(errorx.Unavailable, "%s is currently disabled", game)
			}

			rewards = setting.Rewards
		}

		reward := SelectReward(rewards, m.draw)
		code := GenerateUniqueCode(ctx, m.ledger.IsCodeUnique)
		if err := session.Start(game, reward.Text, code, m.now()); err != nil {
			return err
		}

		track(EventGameStart, GameStartData{GameKey: string(game.Key())})
		return nil
	})
}

func (m *Manager) Reveal(ctx context.Context, id string) (*Session, error) {
	return m.update(ctx, id, false, func(session *Session, track tracker) error {
		if err := session.Reveal(); err != nil {
			return err
		}

		track(EventGameComplete, GameCompleteData{
			Reward: session.Reward,
			Code:   session.Code,
			IsWin:  session.IsWin(),
		})

		if session.IsWin() {
			track(EventGameWin, GameWinData{Reward: session.Reward})
		}

		return nil
	})
}

// Claim validates the lead form and appends the result to the ledger. A
// failed claim is tracked and leaves the session awaiting the claim.
func (m *Manager) Claim(ctx context.Context, id string, input ClaimInput) (*Session, *entity.GameResult, error) {
	var result *entity.GameResult
	session, err := m.update(ctx, id, false, func(session *Session, track tracker) error {
		if err := session.CanSubmit(); err != nil {
			return err
		}

		if errs := ValidateLeadForm(input.Name, input.WhatsApp); len(errs) > 0 {
			verr := errorx.NewValidation(errs)
			track(EventFormSubmitError, FormSubmitErrorData{Error: verr.Message})
			return keepTracked(verr)
		}

		var err error
		result, err = m.ledger.Append(ctx, ledger.GameResultInput{
			Name:      input.Name,
			WhatsApp:  removeSpaces(input.WhatsApp),
			Game:      session.Game,
			Reward:    session.Reward,
			Code:      session.Code,
			IPAddress: input.IPAddress,
			UserAgent: input.UserAgent,
		})
		if err != nil {
			track(EventFormSubmitError, FormSubmitErrorData{Error: err.Error()})
			return keepTracked(err)
		}

		if err := session.Submit(result.ID); err != nil {
			return err
		}

		track(EventFormSubmit, FormSubmitData{Reward: result.Reward, ResultID: result.ID})
		return nil
	})

	return session, result, err
}

// ShareURL returns the WhatsApp link of the claimed reward.
func (m *Manager) ShareURL(ctx context.Context, id, phone string) (string, error) {
	var url string
	_, err := m.update(ctx, id, false, func(session *Session, track tracker) error {
		if session.State != StateSubmitted {
			return errInvalidState("share the reward", session.State)
		}

		url = WhatsAppURL(session.Reward, session.Code, phone)
		track(EventWhatsAppShare, WhatsAppShareData{Reward: session.Reward})
		return nil
	})

	return url, err
}

func (m *Manager) Reset(ctx context.Context, id string) (*Session, error) {
	return m.update(ctx, id, true, func(session *Session, track tracker) error {
		session.Reset()
		return nil
	})
}

type tracker func(EventType, any)

// trackedError is returned by an update function to persist the tracked
// events even though the operation failed.
type trackedError struct {
	err error
}

func (e trackedError) Error() string {
	return e.err.Error()
}

func keepTracked(err error) error {
	return trackedError{err: err}
}

func (m *Manager) update(
	ctx context.Context,
	id string,
	createIfMissing bool,
	fn func(*Session, tracker) error,
) (*Session, error) {
	unlock, err := m.store.Lock(ctx, id)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot lock session %s: %v", id, err)
		return nil, errorx.New(errorx.TooManyRequests, "Session is busy, please try again")
	}
	defer unlock()

	cfg := xcontext.Configs(ctx)
	session, err := m.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, errSessionNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get session %s: %v", id, err)
			return nil, errorx.Unknown
		}

		if !createIfMissing {
			return nil, err
		}

		session = NewSession(id, m.now(), cfg.Game.AnalyticsSize)
	}

	if session.Analytics == nil {
		session.Analytics = NewAnalytics(m.now(), cfg.Game.AnalyticsSize)
	}

	events := []Event{}
	track := func(eventType EventType, payload any) {
		events = append(events, session.Analytics.Track(eventType, session.Game, payload, m.now()))
	}

	fnErr := fn(session, track)
	var tracked trackedError
	if fnErr != nil && !errors.As(fnErr, &tracked) {
		return nil, fnErr
	}

	if err := m.store.Save(ctx, session, cfg.Session.TTL); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save session %s: %v", id, err)
		return nil, errorx.Unknown
	}

	m.publish(ctx, id, events)

	if fnErr != nil {
		return session, tracked.err
	}

	return session, nil
}

func (m *Manager) publish(ctx context.Context, sessionID string, events []Event) {
	if m.publisher == nil {
		return
	}

	for _, e := range events {
		b, err := SerializeGameEvent(sessionID, e)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot serialize game event: %v", err)
			continue
		}

		err = m.publisher.Publish(ctx, common.GameEventTopic, &pubsub.Pack{
			Key: []byte(sessionID),
			Msg: b,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot publish game event %s: %v", e.Type, err)
		}
	}
}
