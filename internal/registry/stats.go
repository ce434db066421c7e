package registry

import (
	"context"
	"math"

	"github.com/cipherhire/cipherhire-backend/internal/model"
)

// Stats aggregates a registry snapshot for the dashboard: per-status counts,
// the average placeholder score and the hire rate in percent.
type Stats struct {
	Total        int                  `json:"total"`
	ByStatus     map[model.Status]int `json:"byStatus"`
	AverageScore int                  `json:"averageScore"`
	HireRate     int                  `json:"hireRate"`
}

// ComputeStats aggregates an already loaded candidate list.
func ComputeStats(list []model.Candidate) Stats {
	stats := Stats{
		Total:    len(list),
		ByStatus: make(map[model.Status]int),
	}

	scoreSum := 0
	for _, c := range list {
		stats.ByStatus[c.Status]++
		scoreSum += c.Score
	}
	if stats.Total == 0 {
		return stats
	}

	stats.AverageScore = int(math.Round(float64(scoreSum) / float64(stats.Total)))
	stats.HireRate = int(math.Round(float64(stats.ByStatus[model.StatusHired]) / float64(stats.Total) * 100))
	return stats
}

// Stats loads the registry and aggregates it.
func (s *Synchronizer) Stats(ctx context.Context) (Stats, error) {
	list, err := s.LoadAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(list), nil
}
