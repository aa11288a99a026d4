package core

import "fmt"

// LevelCount is the number of ready queues. Level 0 has the highest priority.
const LevelCount = 3

// QueueLevel describes one ready queue. PromotionThreshold is zero for level 0,
// which is never promoted out of.
type QueueLevel struct {
	Index              int `json:"index" yaml:"index"`
	Quantum            int `json:"quantum" yaml:"quantum"`
	PromotionThreshold int `json:"promotion_threshold,omitempty" yaml:"promotion_threshold,omitempty"`
}

// Promotable reports whether processes waiting at this level age upwards.
func (l QueueLevel) Promotable() bool {
	return l.Index > 0 && l.PromotionThreshold > 0
}

func DefaultLevels() []QueueLevel {
	return []QueueLevel{
		{Index: 0, Quantum: 4},
		{Index: 1, Quantum: 8, PromotionThreshold: 8},
		{Index: 2, Quantum: 12, PromotionThreshold: 10},
	}
}

// NewLevels builds the queue levels from per-level quanta and the promotion
// thresholds of levels 1..LevelCount-1.
func NewLevels(quanta []int, thresholds []int) ([]QueueLevel, error) {
	if len(quanta) != LevelCount {
		return nil, fmt.Errorf("expected %d time quanta, got %d", LevelCount, len(quanta))
	}
	if len(thresholds) != LevelCount-1 {
		return nil, fmt.Errorf("expected %d promotion thresholds, got %d", LevelCount-1, len(thresholds))
	}
	levels := make([]QueueLevel, LevelCount)
	for i, quantum := range quanta {
		levels[i] = QueueLevel{Index: i, Quantum: quantum}
		if i > 0 {
			levels[i].PromotionThreshold = thresholds[i-1]
		}
	}
	if err := ValidateLevels(levels); err != nil {
		return nil, err
	}
	return levels, nil
}

func ValidateLevels(levels []QueueLevel) error {
	if len(levels) != LevelCount {
		return fmt.Errorf("expected %d queue levels, got %d", LevelCount, len(levels))
	}
	for i, level := range levels {
		if level.Index != i {
			return fmt.Errorf("queue level %d has index %d", i, level.Index)
		}
		if level.Quantum <= 0 {
			return fmt.Errorf("queue level %d: time quantum must be > 0, got %d", i, level.Quantum)
		}
		if i > 0 && level.PromotionThreshold <= 0 {
			return fmt.Errorf("queue level %d: promotion threshold must be > 0, got %d", i, level.PromotionThreshold)
		}
		if i == 0 && level.PromotionThreshold != 0 {
			return fmt.Errorf("queue level 0 cannot have a promotion threshold")
		}
	}
	return nil
}
