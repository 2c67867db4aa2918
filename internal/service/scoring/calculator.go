// Package scoring provides the pure score calculation for platformer runs.
package scoring

// Clamp bounds for a run score.
const (
	MinScore        = 1
	DefaultMaxScore = 120
)

// Bonus conditions for a clean run.
const (
	perfectRunMultiplier = 1.5
	lowDamageThreshold   = 20
)

// RunStats is the raw outcome of a single platformer run.
type RunStats struct {
	EnemiesKilled   int
	DamageDealt     int
	DamageTaken     int
	Deaths          int
	PlayTimeSeconds int
}

// Result is the scored outcome of a run.
type Result struct {
	RawScore     int
	FinalScore   int
	Grade        string
	PerfectBonus bool
}

// CalculateScore converts run stats into a bounded score. The raw score is
// clamped to [MinScore, maxScore], a multiplicative bonus applies to
// zero-death low-damage runs, and the final value is clamped again so the
// bonus can never push past the cap.
func CalculateScore(stats RunStats, maxScore int) Result {
	if maxScore < MinScore {
		maxScore = DefaultMaxScore
	}

	raw := stats.EnemiesKilled*10 +
		stats.DamageDealt/10 -
		stats.DamageTaken/5 -
		stats.Deaths*15 -
		stats.PlayTimeSeconds/10
	raw = clamp(raw, MinScore, maxScore)

	final := raw
	perfect := stats.Deaths == 0 && stats.DamageTaken < lowDamageThreshold
	if perfect {
		final = int(float64(raw) * perfectRunMultiplier)
	}
	final = clamp(final, MinScore, maxScore)

	return Result{
		RawScore:     raw,
		FinalScore:   final,
		Grade:        GradeFor(final),
		PerfectBonus: perfect,
	}
}

// GradeFor maps a final score to its letter grade.
func GradeFor(score int) string {
	switch {
	case score >= 110:
		return "S"
	case score >= 90:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	case score >= 30:
		return "D"
	default:
		return "F"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
