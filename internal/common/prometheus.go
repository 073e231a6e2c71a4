package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	GameEventTotal             = "game_events_total"
	GameResultTotal            = "game_results_total"
	LedgerPlays                = "ledger_plays"
	LedgerWins                 = "ledger_wins"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{
		LedgerPlays: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: LedgerPlays,
			Help: "Total plays recorded in the ledger settings",
		}, []string{}),
		LedgerWins: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: LedgerWins,
			Help: "Total wins recorded in the ledger settings",
		}, []string{}),
	}

	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		GameEventTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: GameEventTotal,
			Help: "Count of player session events",
		}, []string{"type", "game"}),
		GameResultTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: GameResultTotal,
			Help: "Count of appended game results",
		}, []string{"game", "reward"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}

	PromSummaries = map[string]*prometheus.SummaryVec{}
)
