package domain

import (
	"context"
	"time"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/internal/domain/gamesession"
	"github.com/questx-lab/spinwin/internal/domain/ledger"
	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/internal/model"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

type GameDomain interface {
	GetGames(context.Context, *model.GetGamesRequest) (*model.GetGamesResponse, error)
	StartGame(context.Context, *model.StartGameRequest) (*model.StartGameResponse, error)
	RevealGame(context.Context, *model.RevealGameRequest) (*model.RevealGameResponse, error)
	ClaimReward(context.Context, *model.ClaimRewardRequest) (*model.ClaimRewardResponse, error)
	ResetGame(context.Context, *model.ResetGameRequest) (*model.ResetGameResponse, error)
	GetSession(context.Context, *model.GetSessionRequest) (*model.GetSessionResponse, error)
	GetShareLink(context.Context, *model.GetShareLinkRequest) (*model.GetShareLinkResponse, error)
}

type gameDomain struct {
	ledger         *ledger.Ledger
	sessionManager *gamesession.Manager
}

func NewGameDomain(ledger *ledger.Ledger, sessionManager *gamesession.Manager) *gameDomain {
	return &gameDomain{
		ledger:         ledger,
		sessionManager: sessionManager,
	}
}

func (d *gameDomain) GetGames(
	ctx context.Context, req *model.GetGamesRequest,
) (*model.GetGamesResponse, error) {
	games := []model.Game{}
	for _, key := range []entity.GameKey{entity.SpinGame, entity.ScratchGame} {
		setting := d.ledger.GetGameSettings(ctx, key)
		if setting == nil {
			setting = &entity.GameSetting{Key: key, Enabled: true, Rewards: entity.DefaultRewards(key)}
		}

		games = append(games, model.ConvertGame(*setting))
	}

	return &model.GetGamesResponse{Games: games}, nil
}

func (d *gameDomain) StartGame(
	ctx context.Context, req *model.StartGameRequest,
) (*model.StartGameResponse, error) {
	sessionID, err := requestSessionID(ctx)
	if err != nil {
		return nil, err
	}

	game, err := parseGame(req.Game)
	if err != nil {
		return nil, err
	}

	session, err := d.sessionManager.Start(ctx, sessionID, game)
	if err != nil {
		return nil, err
	}

	return &model.StartGameResponse{Session: convertSession(session)}, nil
}

func (d *gameDomain) RevealGame(
	ctx context.Context, req *model.RevealGameRequest,
) (*model.RevealGameResponse, error) {
	sessionID, err := requestSessionID(ctx)
	if err != nil {
		return nil, err
	}

	session, err := d.sessionManager.Reveal(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &model.RevealGameResponse{Session: convertSession(session)}, nil
}

func (d *gameDomain) ClaimReward(
	ctx context.Context, req *model.ClaimRewardRequest,
) (*model.ClaimRewardResponse, error) {
	sessionID, err := requestSessionID(ctx)
	if err != nil {
		return nil, err
	}

	httpReq := xcontext.HTTPRequest(ctx)
	session, result, err := d.sessionManager.Claim(ctx, sessionID, gamesession.ClaimInput{
		Name:      req.Name,
		WhatsApp:  req.WhatsApp,
		IPAddress: clientIP(httpReq),
		UserAgent: userAgent(httpReq),
	})
	if err != nil {
		return nil, err
	}

	common.PromCounters[common.GameResultTotal].
		WithLabelValues(string(result.Game), result.Reward).Inc()

	return &model.ClaimRewardResponse{
		Session: convertSession(session),
		Result:  model.ConvertGameResult(result),
	}, nil
}

func (d *gameDomain) ResetGame(
	ctx context.Context, req *model.ResetGameRequest,
) (*model.ResetGameResponse, error) {
	sessionID, err := requestSessionID(ctx)
	if err != nil {
		return nil, err
	}

	session, err := d.sessionManager.Reset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &model.ResetGameResponse{Session: convertSession(session)}, nil
}

func (d *gameDomain) GetSession(
	ctx context.Context, req *model.GetSessionRequest,
) (*model.GetSessionResponse, error) {
	sessionID, err := requestSessionID(ctx)
	if err != nil {
		return nil, err
	}

	session, err := d.sessionManager.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &model.GetSessionResponse{
		Session:   convertSession(session),
		Analytics: convertAnalytics(session.Analytics.Summary(time.Now())),
	}, nil
}

func (d *gameDomain) GetShareLink(
	ctx context.Context, req *model.GetShareLinkRequest,
) (*model.GetShareLinkResponse, error) {
	sessionID, err := requestSessionID(ctx)
	if err != nil {
		return nil, err
	}

	url, err := d.sessionManager.ShareURL(ctx, sessionID, req.Phone)
	if err != nil {
		return nil, err
	}

	return &model.GetShareLinkResponse{URL: url}, nil
}

func convertSession(s *gamesession.Session) model.Session {
	result := model.Session{
		ID:        s.ID,
		State:     string(s.State),
		Game:      string(s.Game),
		ResultID:  s.ResultID,
		StartedAt: s.StartedAt,
	}

	// The outcome stays hidden while the wheel spins or the card is covered.
	if s.State == gamesession.StateAwaitingClaim || s.State == gamesession.StateSubmitted {
		result.Reward = s.Reward
		result.Code = s.Code
		result.IsWin = s.IsWin()
	}

	return result
}

func convertAnalytics(summary gamesession.AnalyticsSummary) model.Analytics {
	events := []model.AnalyticsEvent{}
	for _, e := range summary.Events {
		events = append(events, model.AnalyticsEvent{
			Type:        string(e.Type),
			Game:        string(e.Game),
			Timestamp:   e.Timestamp,
			SessionTime: e.SessionTime,
			Data:        e.Data,
		})
	}

	return model.Analytics{
		SessionDuration: summary.SessionDuration,
		TotalEvents:     summary.TotalEvents,
		Events:          events,
		GameStarts:      summary.GameStarts,
		GameCompletions: summary.GameCompletions,
		Wins:            summary.Wins,
		FormSubmissions: summary.FormSubmissions,
	}
}
