package runner

import "fmt"

// Tally is a running count of resolved shots.
type Tally struct {
	Shots     int
	Hits      int
	RewardSum float64
}

// Add records one resolved shot.
func (t *Tally) Add(hit bool, reward float64) {
	t.Shots++
	if hit {
		t.Hits++
	}
	t.RewardSum += reward
}

// Accuracy returns hits/shots in [0, 1], or 0 before the first shot.
func (t Tally) Accuracy() float64 {
	if t.Shots == 0 {
		return 0
	}
	return float64(t.Hits) / float64(t.Shots)
}

// MeanReward returns the average reward per shot.
func (t Tally) MeanReward() float64 {
	if t.Shots == 0 {
		return 0
	}
	return t.RewardSum / float64(t.Shots)
}

// Label formats accuracy as a percentage with one decimal, e.g. "66.7%".
func (t Tally) Label() string {
	return fmt.Sprintf("%.1f%%", t.Accuracy()*100)
}
