package gamesession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/internal/domain/ledger"
	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/internal/repository"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type managerFixture struct {
	ctx       context.Context
	ledger    *ledger.Ledger
	publisher *testutil.MockPublisher
	manager   *Manager
}

func newManagerFixture(t *testing.T, draw float64) managerFixture {
	ctx := testutil.NewMockContext()
	l := ledger.New(
		repository.NewGameResultRepository(),
		repository.NewLedgerSettingsRepository(),
		repository.NewAdminConfigRepository(),
		nil,
	)
	require.NoError(t, l.Initialize(ctx))

	publisher := &testutil.MockPublisher{}
	manager := NewManager(NewMemoryStore(), l, publisher).WithDrawer(fixedDraw(draw))

	return managerFixture{ctx: ctx, ledger: l, publisher: publisher, manager: manager}
}

func publishedTypes(t *testing.T, publisher *testutil.MockPublisher) []EventType {
	types := []EventType{}
	for _, p := range publisher.Published() {
		require.Equal(t, common.GameEventTopic, p.Topic)
		e, err := DeserializeGameEvent(p.Pack.Msg)
		require.NoError(t, err)
		types = append(types, e.Event.Type)
	}
	return types
}

func Test_Manager_WinningFlow(t *testing.T) {
	f := newManagerFixture(t, 0)

	session, err := f.manager.Start(f.ctx, "s1", entity.SpinAndWin)
	require.NoError(t, err)
	require.Equal(t, StatePlaying, session.State)
	require.Equal(t, "10% Off", session.Reward)
	require.Regexp(t, codeRegex, session.Code)

	_, err = f.manager.Start(f.ctx, "s1", entity.SpinAndWin)
	require.ErrorIs(t, err, ErrAlreadyPlaying)

	session, err = f.manager.Reveal(f.ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, StateAwaitingClaim, session.State)

	session, result, err := f.manager.Claim(f.ctx, "s1", ClaimInput{
		Name:      "Alice",
		WhatsApp:  "+91 98765 43210",
		IPAddress: "10.0.0.9",
		UserAgent: "test",
	})
	require.NoError(t, err)
	require.Equal(t, StateSubmitted, session.State)
	require.Equal(t, result.ID, session.ResultID)
	require.Equal(t, "+919876543210", result.WhatsApp)
	require.Equal(t, session.Code, result.Code)
	require.Equal(t, entity.SpinAndWin, result.Game)

	_, _, err = f.manager.Claim(f.ctx, "s1", ClaimInput{Name: "Alice", WhatsApp: "9876543210"})
	require.ErrorIs(t, err, ErrAlreadySubmitted)

	url, err := f.manager.ShareURL(f.ctx, "s1", "")
	require.NoError(t, err)
	require.Contains(t, url, session.Code)

	session, err = f.manager.Reset(f.ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, StateIdle, session.State)

	require.Len(t, f.ledger.Query(f.ctx, repository.GameResultFilter{}), 1)
	require.Equal(t, []EventType{
		EventGameStart, EventGameComplete, EventGameWin, EventFormSubmit, EventWhatsAppShare,
	}, publishedTypes(t, f.publisher))

	session, err = f.manager.Get(f.ctx, "s1")
	require.NoError(t, err)
	summary := session.Analytics.Summary(time.Now())
	require.Equal(t, 1, summary.GameStarts)
	require.Equal(t, 1, summary.Wins)
	require.Equal(t, 1, summary.FormSubmissions)
}

func Test_Manager_NoWin(t *testing.T) {
	f := newManagerFixture(t, 0.8)

	session, err := f.manager.Start(f.ctx, "s1", entity.SpinAndWin)
	require.NoError(t, err)
	require.Equal(t, entity.NoWin, session.Reward)

	_, err = f.manager.Reveal(f.ctx, "s1")
	require.NoError(t, err)

	_, _, err = f.manager.Claim(f.ctx, "s1", ClaimInput{Name: "Alice", WhatsApp: "9876543210"})
	require.ErrorIs(t, err, ErrNothingToClaim)

	_, err = f.manager.ShareURL(f.ctx, "s1", "")
	require.ErrorIs(t, err, errorx.New(errorx.InvalidState, ""))

	_, err = f.manager.Reset(f.ctx, "s1")
	require.NoError(t, err)

	_, err = f.manager.Start(f.ctx, "s1", entity.SpinAndWin)
	require.NoError(t, err)

	require.Empty(t, f.ledger.Query(f.ctx, repository.GameResultFilter{}))
	require.Equal(t, []EventType{EventGameStart, EventGameComplete, EventGameStart}, publishedTypes(t, f.publisher))
}

func Test_Manager_InvalidForm(t *testing.T) {
	f := newManagerFixture(t, 0)

	_, err := f.manager.Start(f.ctx, "s1", entity.ScratchAndWin)
	require.NoError(t, err)
	_, err = f.manager.Reveal(f.ctx, "s1")
	require.NoError(t, err)

	session, _, err := f.manager.Claim(f.ctx, "s1", ClaimInput{Name: "A", WhatsApp: "abc"})
	require.Error(t, err)

	var errx errorx.Error
	require.True(t, errors.As(err, &errx))
	require.Equal(t, errorx.BadRequest, errx.Code)
	require.Contains(t, errx.Details, FormFieldName)
	require.Contains(t, errx.Details, FormFieldWhatsApp)
	require.Equal(t, StateAwaitingClaim, session.State)

	// The failed attempt is kept in the session analytics.
	session, err = f.manager.Get(f.ctx, "s1")
	require.NoError(t, err)
	last := session.Analytics.Events[len(session.Analytics.Events)-1]
	require.Equal(t, EventFormSubmitError, last.Type)

	_, _, err = f.manager.Claim(f.ctx, "s1", ClaimInput{Name: "Alice", WhatsApp: "9876543210"})
	require.NoError(t, err)
}

func Test_Manager_DisabledGame(t *testing.T) {
	f := newManagerFixture(t, 0)
	require.NoError(t, f.ledger.UpdateGameSettings(f.ctx, entity.ScratchGame, false, entity.DefaultScratchRewards()))

	_, err := f.manager.Start(f.ctx, "s1", entity.ScratchAndWin)
	require.ErrorIs(t, err, errorx.New(errorx.Unavailable, ""))

	session, err := f.manager.Get(f.ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, StateIdle, session.State)

	_, err = f.manager.Start(f.ctx, "s1", entity.SpinAndWin)
	require.NoError(t, err)
}

func Test_Manager_CustomRewards(t *testing.T) {
	f := newManagerFixture(t, 0.99)
	require.NoError(t, f.ledger.UpdateGameSettings(f.ctx, entity.SpinGame, true, []entity.RewardEntry{
		{Text: "Free Coffee", Probability: 1},
	}))

	session, err := f.manager.Start(f.ctx, "s1", entity.SpinAndWin)
	require.NoError(t, err)
	require.Equal(t, "Free Coffee", session.Reward)
}

func Test_Manager_UnknownSession(t *testing.T) {
	f := newManagerFixture(t, 0)

	_, err := f.manager.Reveal(f.ctx, "missing")
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))

	session, err := f.manager.Get(f.ctx, "missing")
	require.NoError(t, err)
	require.Equal(t, StateIdle, session.State)
	require.Empty(t, f.publisher.Published())
}

func Test_Manager_WithoutPublisher(t *testing.T) {
	f := newManagerFixture(t, 0)
	manager := NewManager(NewMemoryStore(), f.ledger, nil).WithDrawer(fixedDraw(0))

	_, err := manager.Start(f.ctx, "s1", entity.SpinAndWin)
	require.NoError(t, err)
}
