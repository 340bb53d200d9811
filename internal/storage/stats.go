package storage

import (
	"fmt"
	"time"
)

// RunSummary aggregates the shots of one run.
type RunSummary struct {
	Run
	Shots      int
	Hits       int
	MeanReward float64
}

// Accuracy returns the hit ratio in [0, 1], or 0 for an empty run.
func (r RunSummary) Accuracy() float64 {
	if r.Shots == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Shots)
}

// PolicyStats contains aggregated statistics for a policy.
type PolicyStats struct {
	Policy     string
	Runs       int
	Shots      int
	Hits       int
	MeanReward float64
	MeanTicks  float64
	LastShot   time.Time
}

// Accuracy returns the hit ratio in [0, 1], or 0 with no shots.
func (p PolicyStats) Accuracy() float64 {
	if p.Shots == 0 {
		return 0
	}
	return float64(p.Hits) / float64(p.Shots)
}

// RecentRuns retrieves the most recent runs with their aggregates.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	return s.RecentPolicyRuns("", limit)
}

// RecentPolicyRuns is RecentRuns restricted to one policy. An empty
// policy matches every run. The limit applies after the filter.
func (s *Store) RecentPolicyRuns(policy string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT r.id, r.policy, r.source, r.preset, r.seed, r.created_at,
		        COUNT(sh.id), COALESCE(SUM(sh.hit), 0), COALESCE(AVG(sh.reward), 0)
		 FROM runs r
		 LEFT JOIN shots sh ON sh.run_id = r.id
		 WHERE ? = '' OR r.policy = ?
		 GROUP BY r.id
		 ORDER BY r.created_at DESC, r.rowid DESC
		 LIMIT ?`,
		policy, policy, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Policy, &r.Source, &r.Preset, &r.Seed, &createdAt,
			&r.Shots, &r.Hits, &r.MeanReward); err != nil {
			return nil, fmt.Errorf("storage: cannot scan run row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// GetPolicyStats retrieves aggregated statistics for a specific policy.
func (s *Store) GetPolicyStats(policy string) (*PolicyStats, error) {
	stats := &PolicyStats{Policy: policy}
	var lastShot any

	err := s.db.QueryRow(
		`SELECT COUNT(DISTINCT r.id), COUNT(sh.id), COALESCE(SUM(sh.hit), 0),
		        COALESCE(AVG(sh.reward), 0), COALESCE(AVG(sh.ticks), 0), MAX(sh.created_at)
		 FROM runs r
		 LEFT JOIN shots sh ON sh.run_id = r.id
		 WHERE r.policy = ?`,
		policy,
	).Scan(&stats.Runs, &stats.Shots, &stats.Hits, &stats.MeanReward, &stats.MeanTicks, &lastShot)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get policy stats: %w", err)
	}
	stats.LastShot = parseTime(lastShot)
	return stats, nil
}

// GetAllPolicyStats retrieves statistics for every policy that has runs.
func (s *Store) GetAllPolicyStats() (map[string]*PolicyStats, error) {
	rows, err := s.db.Query(
		`SELECT r.policy, COUNT(DISTINCT r.id), COUNT(sh.id), COALESCE(SUM(sh.hit), 0),
		        COALESCE(AVG(sh.reward), 0), COALESCE(AVG(sh.ticks), 0), MAX(sh.created_at)
		 FROM runs r
		 LEFT JOIN shots sh ON sh.run_id = r.id
		 GROUP BY r.policy`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all policy stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*PolicyStats)
	for rows.Next() {
		var p PolicyStats
		var lastShot any
		if err := rows.Scan(&p.Policy, &p.Runs, &p.Shots, &p.Hits, &p.MeanReward, &p.MeanTicks, &lastShot); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		p.LastShot = parseTime(lastShot)
		stats[p.Policy] = &p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
