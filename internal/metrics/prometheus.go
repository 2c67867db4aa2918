// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the recycle rewards service.
var (
	// Counters.
	PointsAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "Total points awarded to users",
		},
		[]string{"source"},
	)

	RecyclingEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recycling_events_total",
			Help: "Total recycling events logged",
		},
		[]string{"material"},
	)

	GamePlaysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_plays_total",
			Help: "Total mini-game rounds submitted",
		},
		[]string{"status"},
	)

	GamePlaysDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_plays_denied_total",
			Help: "Total mini-game admissions denied by the session gate",
		},
		[]string{"reason"},
	)

	RankPromotionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rank_promotions_total",
			Help: "Total rank promotions",
		},
		[]string{"rank"},
	)

	RewardsGrantedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_granted_total",
			Help: "Total rewards granted to users",
		},
		[]string{"source", "reward_type"},
	)

	// Gauges.
	LeaderboardCacheAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "leaderboard_cache_age_seconds",
			Help: "Seconds since the leaderboard cache was last refreshed",
		},
	)

	SchedulerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scheduler_last_run_timestamp",
			Help: "Unix timestamp of last scheduler run",
		},
	)

	// Histograms.
	GameScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "game_score",
			Help:    "Final mini-game scores after clamping",
			Buckets: prometheus.LinearBuckets(0, 20, 7), // 0 to 120
		},
	)

	SchedulerJobDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scheduler_job_duration_seconds",
			Help:    "Time taken to execute the leaderboard refresh job",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
	)
)

// RecordPointsAwarded records points granted from a source ("recycling" or "game").
func RecordPointsAwarded(source string, points int) {
	PointsAwardedTotal.WithLabelValues(source).Add(float64(points))
}

// RecordRecyclingEvent records a logged recycling event.
func RecordRecyclingEvent(material string) {
	RecyclingEventsTotal.WithLabelValues(material).Inc()
}

// RecordGamePlay records a submitted mini-game round.
func RecordGamePlay(status string) {
	GamePlaysTotal.WithLabelValues(status).Inc()
}

// RecordGamePlayDenied records an admission denial from the session gate.
func RecordGamePlayDenied(reason string) {
	GamePlaysDeniedTotal.WithLabelValues(reason).Inc()
}

// RecordRankPromotion records a rank promotion.
func RecordRankPromotion(rank string) {
	RankPromotionsTotal.WithLabelValues(rank).Inc()
}

// RecordRewardGranted records a reward grant.
func RecordRewardGranted(source, rewardType string) {
	RewardsGrantedTotal.WithLabelValues(source, rewardType).Inc()
}

// ObserveGameScore observes a final clamped score.
func ObserveGameScore(score int) {
	GameScore.Observe(float64(score))
}

// SetSchedulerLastRun sets the timestamp of the last scheduler run.
func SetSchedulerLastRun() {
	SchedulerLastRunTimestamp.SetToCurrentTime()
}

// ObserveSchedulerJobDuration observes the duration of a scheduler job.
func ObserveSchedulerJobDuration(seconds float64) {
	SchedulerJobDurationSeconds.Observe(seconds)
}
