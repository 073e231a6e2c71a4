package model

type GetGamesRequest struct{}

type GetGamesResponse struct {
	Games []Game `json:"games"`
}

type StartGameRequest struct {
	// Game is either a game key (spinGame) or a game name (Spin & Win).
	Game string `json:"game"`
}

type StartGameResponse struct {
	Session Session `json:"session"`
}

type RevealGameRequest struct{}

type RevealGameResponse struct {
	Session Session `json:"session"`
}

type ClaimRewardRequest struct {
	Name     string `json:"name"`
	WhatsApp string `json:"whatsapp"`
}

type ClaimRewardResponse struct {
	Session Session    `json:"session"`
	Result  GameResult `json:"result"`
}

type ResetGameRequest struct{}

type ResetGameResponse struct {
	Session Session `json:"session"`
}

type GetSessionRequest struct{}

type GetSessionResponse struct {
	Session   Session   `json:"session"`
	Analytics Analytics `json:"analytics"`
}

type GetShareLinkRequest struct {
	Phone string `form:"phone"`
}

type GetShareLinkResponse struct {
	URL string `json:"url"`
}
