package profit

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Rank is discrete profit tier
type Rank uint16

const (
	RANK_LOW = Rank(iota + 1)
	RANK_MEDIUM
	RANK_HIGH
)

func (iotaIdx Rank) String() string {
	if iotaIdx == 0 || iotaIdx > RANK_HIGH {
		return "undefined"
	}
	return [...]string{"low", "medium", "high"}[iotaIdx-1]
}

// ParseRank returns rank by its name
func ParseRank(str string) (Rank, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "low":
		return RANK_LOW, nil
	case "medium":
		return RANK_MEDIUM, nil
	case "high":
		return RANK_HIGH, nil
	}
	return 0, fmt.Errorf("unknown rank '%s'", str)
}

// RankThreshold assigns Rank to every profit greater than or equal to MinProfit
type RankThreshold struct {
	Rank      Rank
	MinProfit float64
}

// RankTable is list of thresholds sorted by MinProfit in ascending order
type RankTable []RankThreshold

// DefaultRankTable is used when no table has been configured
var DefaultRankTable = RankTable{
	{Rank: RANK_LOW, MinProfit: 0},
	{Rank: RANK_MEDIUM, MinProfit: 5},
	{Rank: RANK_HIGH, MinProfit: 15},
}

// Rank returns highest rank whose threshold does not exceed profit. RANK_LOW is returned for profit below every threshold
func (table RankTable) Rank(profit float64) Rank {
	ans := RANK_LOW
	if math.IsNaN(profit) {
		return ans
	}
	for _, threshold := range table {
		if threshold.MinProfit <= profit && threshold.Rank > ans {
			ans = threshold.Rank
		}
	}
	return ans
}

// Validate checks that thresholds and ranks are strictly ascending
func (table RankTable) Validate() error {
	if len(table) == 0 {
		return errors.New("rank table is empty")
	}
	for i, threshold := range table {
		if threshold.Rank < RANK_LOW || threshold.Rank > RANK_HIGH {
			return fmt.Errorf("unknown rank %d at position %d", threshold.Rank, i)
		}
		if math.IsNaN(threshold.MinProfit) {
			return fmt.Errorf("threshold at position %d is NaN", i)
		}
		if i == 0 {
			continue
		}
		prev := table[i-1]
		if threshold.MinProfit <= prev.MinProfit {
			return fmt.Errorf("thresholds must be strictly ascending: %f (%s) after %f (%s)", threshold.MinProfit, threshold.Rank, prev.MinProfit, prev.Rank)
		}
		if threshold.Rank <= prev.Rank {
			return fmt.Errorf("ranks must be ascending: %s after %s", threshold.Rank, prev.Rank)
		}
	}
	return nil
}
