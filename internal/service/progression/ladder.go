// Package progression converts recycling and game outcomes into point awards
// and keeps user ranks consistent with lifetime points.
package progression

import (
	"fmt"
	"math"

	"github.com/ecoheroes/recycle-rewards/internal/config"
	"github.com/ecoheroes/recycle-rewards/internal/models"
)

// Tier is one rung of the rank ladder.
type Tier struct {
	Name       string
	MinPoints  int
	Multiplier float64
}

// Ladder is an ascending table of rank tiers over lifetime points.
// It is the single rank taxonomy: names, thresholds and point multipliers
// live in one table exposed through configuration.
type Ladder struct {
	tiers []Tier
}

// DefaultLadder returns the built-in five-tier ladder.
func DefaultLadder() *Ladder {
	return &Ladder{tiers: []Tier{
		{Name: "Bronze", MinPoints: 0, Multiplier: 1.0},
		{Name: "Silver", MinPoints: 100, Multiplier: 1.1},
		{Name: "Gold", MinPoints: 300, Multiplier: 1.2},
		{Name: "Platinum", MinPoints: 600, Multiplier: 1.35},
		{Name: "Diamond", MinPoints: 1000, Multiplier: 1.5},
	}}
}

// LadderFromConfig builds a ladder from configuration. Config validation
// guarantees ascending thresholds starting at 0.
func LadderFromConfig(cfg *config.ProgressionConfig) *Ladder {
	if len(cfg.Ranks) == 0 {
		return DefaultLadder()
	}
	tiers := make([]Tier, 0, len(cfg.Ranks))
	for _, r := range cfg.Ranks {
		tiers = append(tiers, Tier{Name: r.Name, MinPoints: r.MinPoints, Multiplier: r.Multiplier})
	}
	return &Ladder{tiers: tiers}
}

// RankFor returns the rank name for a lifetime point total. The result is a
// pure function of the total.
func (l *Ladder) RankFor(totalPoints int) string {
	rank := l.tiers[0].Name
	for _, tier := range l.tiers {
		if totalPoints >= tier.MinPoints {
			rank = tier.Name
		}
	}
	return rank
}

// MultiplierFor returns the point multiplier for a lifetime point total.
func (l *Ladder) MultiplierFor(totalPoints int) float64 {
	mult := l.tiers[0].Multiplier
	for _, tier := range l.tiers {
		if totalPoints >= tier.MinPoints {
			mult = tier.Multiplier
		}
	}
	return mult
}

// Apply adds delta to a user's spendable balance and lifetime total and
// recomputes the rank from the new total. Returns the rank before and after.
// The lifetime total never decreases because callers reject negative deltas.
func (l *Ladder) Apply(user *models.User, delta int) (oldRank, newRank string) {
	oldRank = l.RankFor(user.TotalPointsEarned)
	user.Points += delta
	user.TotalPointsEarned += delta
	newRank = l.RankFor(user.TotalPointsEarned)
	user.Rank = newRank
	return oldRank, newRank
}

// Tiers returns the ladder contents in ascending order.
func (l *Ladder) Tiers() []Tier {
	return l.tiers
}

// CalculatePoints computes the point value of a recycling submission:
// floor(pointsPerUnit * quantity * multiplier). Negative inputs are rejected
// rather than silently wrapping into rank math.
func CalculatePoints(pointsPerUnit, quantity int, multiplier float64) (int, error) {
	if pointsPerUnit < 0 {
		return 0, fmt.Errorf("points per unit must be non-negative, got %d", pointsPerUnit)
	}
	if quantity < 0 {
		return 0, fmt.Errorf("quantity must be non-negative, got %d", quantity)
	}
	if multiplier < 0 {
		return 0, fmt.Errorf("multiplier must be non-negative, got %f", multiplier)
	}
	return int(math.Floor(float64(pointsPerUnit) * float64(quantity) * multiplier)), nil
}
