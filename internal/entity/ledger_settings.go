package entity

type LedgerSettings struct {
	ID          int `gorm:"primaryKey;autoIncrement:false"`
	TotalPlays  int64
	TotalWins   int64
	LastUpdated int64
}
