package scoring

import (
	"testing"
)

func TestCalculateScore_ClampUpper(t *testing.T) {
	// Arbitrarily large inputs never exceed the cap
	stats := RunStats{
		EnemiesKilled: 100000,
		DamageDealt:   9999999,
	}

	result := CalculateScore(stats, DefaultMaxScore)
	if result.FinalScore > DefaultMaxScore {
		t.Errorf("Final score %d exceeds cap %d", result.FinalScore, DefaultMaxScore)
	}
	if result.FinalScore != DefaultMaxScore {
		t.Errorf("Expected capped score %d, got %d", DefaultMaxScore, result.FinalScore)
	}
}

func TestCalculateScore_ClampLower(t *testing.T) {
	// A terrible run never scores below the floor
	stats := RunStats{
		DamageTaken:     100000,
		Deaths:          500,
		PlayTimeSeconds: 100000,
	}

	result := CalculateScore(stats, DefaultMaxScore)
	if result.FinalScore < MinScore {
		t.Errorf("Final score %d below floor %d", result.FinalScore, MinScore)
	}
}

func TestCalculateScore_PerfectRunBonus(t *testing.T) {
	stats := RunStats{
		EnemiesKilled:   6,
		DamageDealt:     100,
		DamageTaken:     10, // below the low-damage threshold
		Deaths:          0,
		PlayTimeSeconds: 60,
	}

	result := CalculateScore(stats, DefaultMaxScore)
	if !result.PerfectBonus {
		t.Fatal("Expected perfect-run bonus")
	}

	// raw = 60 + 10 - 2 - 0 - 6 = 62; bonus -> 93
	if result.RawScore != 62 {
		t.Errorf("Expected raw score 62, got %d", result.RawScore)
	}
	if result.FinalScore != 93 {
		t.Errorf("Expected final score 93, got %d", result.FinalScore)
	}
}

func TestCalculateScore_NoBonusWithDeaths(t *testing.T) {
	stats := RunStats{
		EnemiesKilled: 6,
		DamageDealt:   100,
		DamageTaken:   10,
		Deaths:        1,
	}

	result := CalculateScore(stats, DefaultMaxScore)
	if result.PerfectBonus {
		t.Error("Expected no bonus for a run with deaths")
	}
	if result.FinalScore != result.RawScore {
		t.Errorf("Expected final == raw without bonus, got %d != %d", result.FinalScore, result.RawScore)
	}
}

func TestCalculateScore_NoBonusWithHighDamageTaken(t *testing.T) {
	stats := RunStats{
		EnemiesKilled: 6,
		DamageTaken:   25, // at/above threshold
		Deaths:        0,
	}

	result := CalculateScore(stats, DefaultMaxScore)
	if result.PerfectBonus {
		t.Error("Expected no bonus when damage taken crosses the threshold")
	}
}

func TestCalculateScore_BonusCannotExceedCap(t *testing.T) {
	stats := RunStats{
		EnemiesKilled: 12, // raw 120, already at cap
		Deaths:        0,
		DamageTaken:   0,
	}

	result := CalculateScore(stats, DefaultMaxScore)
	if result.FinalScore != DefaultMaxScore {
		t.Errorf("Expected final score %d, got %d", DefaultMaxScore, result.FinalScore)
	}
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{120, "S"},
		{110, "S"},
		{109, "A"},
		{90, "A"},
		{89, "B"},
		{70, "B"},
		{69, "C"},
		{50, "C"},
		{49, "D"},
		{30, "D"},
		{29, "F"},
		{1, "F"},
	}

	for _, tt := range tests {
		if got := GradeFor(tt.score); got != tt.want {
			t.Errorf("GradeFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
