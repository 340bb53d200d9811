package sim

import "github.com/vovakirdan/tui-archery/internal/config"

// HitReward is paid for every hit regardless of preset.
const HitReward = 100.0

// Reward scores a terminal state: HitReward, or minus the final distance
// divided by the configured scale.
func Reward(hit bool, finalDistance float64, r config.Reward) float64 {
	if hit {
		return HitReward
	}
	return -(finalDistance / r.DistanceScale)
}
