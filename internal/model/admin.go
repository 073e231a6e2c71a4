package model

type ResultFilter struct {
	Game string `form:"game"`

	// Claimed is "true", "false" or empty for both.
	Claimed  string `form:"claimed"`
	DateFrom int64  `form:"date_from"`
	DateTo   int64  `form:"date_to"`
	Reward   string `form:"reward"`
}

type GetResultsRequest struct {
	ResultFilter
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type GetResultsResponse struct {
	Results []GameResult `json:"results"`
}

type SetClaimedRequest struct {
	ID      string `json:"id"`
	Claimed bool   `json:"claimed"`
}

type SetClaimedResponse struct{}

type GetStatisticsRequest struct{}

type GetStatisticsResponse struct {
	Statistics Statistics `json:"statistics"`
}

type ExportCSVRequest struct {
	ResultFilter
}

type BackupRequest struct{}

type UploadBackupRequest struct{}

type UploadBackupResponse struct {
	Files []string `json:"files"`
}

type GetGameSettingsRequest struct{}

type GetGameSettingsResponse struct {
	Settings []GameSetting `json:"settings"`
}

type UpdateGameSettingsRequest struct {
	Key     string        `json:"key"`
	Enabled bool          `json:"enabled"`
	Rewards []RewardEntry `json:"rewards"`
}

type UpdateGameSettingsResponse struct{}

type ClearAllDataRequest struct {
	Confirm bool `json:"confirm"`
}

type ClearAllDataResponse struct{}
