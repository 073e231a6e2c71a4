package model

type RewardEntry struct {
	Text        string  `json:"text"`
	Probability float64 `json:"probability"`
}

type Game struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
	Rewards []string `json:"rewards"`
}

type GameSetting struct {
	Key       string        `json:"key"`
	Name      string        `json:"name"`
	Enabled   bool          `json:"enabled"`
	Rewards   []RewardEntry `json:"rewards"`
	UpdatedAt string        `json:"updated_at"`
}

type GameResult struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	WhatsApp  string `json:"whatsapp"`
	Game      string `json:"game"`
	Reward    string `json:"reward"`
	Code      string `json:"code"`
	Claimed   bool   `json:"claimed"`
	ClaimedAt string `json:"claimed_at,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Date      string `json:"date"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

// Session hides the reward and the code until the reward is revealed.
type Session struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	Game      string `json:"game,omitempty"`
	Reward    string `json:"reward,omitempty"`
	Code      string `json:"code,omitempty"`
	IsWin     bool   `json:"is_win"`
	ResultID  string `json:"result_id,omitempty"`
	StartedAt int64  `json:"started_at,omitempty"`
}

type AnalyticsEvent struct {
	Type        string         `json:"type"`
	Game        string         `json:"game,omitempty"`
	Timestamp   int64          `json:"timestamp"`
	SessionTime int64          `json:"session_time"`
	Data        map[string]any `json:"data,omitempty"`
}

type Analytics struct {
	SessionDuration int64            `json:"session_duration"`
	TotalEvents     int              `json:"total_events"`
	Events          []AnalyticsEvent `json:"events"`
	GameStarts      int              `json:"game_starts"`
	GameCompletions int              `json:"game_completions"`
	Wins            int              `json:"wins"`
	FormSubmissions int              `json:"form_submissions"`
}

type Statistics struct {
	TotalPlays   int64   `json:"total_plays"`
	TotalWins    int64   `json:"total_wins"`
	TotalClaimed int64   `json:"total_claimed"`
	WinRate      float64 `json:"win_rate"`
	ClaimRate    float64 `json:"claim_rate"`
	SpinPlays    int64   `json:"spin_plays"`
	ScratchPlays int64   `json:"scratch_plays"`
	RecentPlays  int64   `json:"recent_plays"`
	LastUpdated  string  `json:"last_updated"`
}
