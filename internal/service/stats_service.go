package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// StatsService reads the per-project issue-status counters that the event
// consumer maintains in Redis.
type StatsService struct {
	rdb *redis.Client
}

func NewStatsService(rdb *redis.Client) *StatsService {
	return &StatsService{rdb: rdb}
}

// ProjectIssueStats returns a status -> count map. A project with no recorded
// activity yields an empty map.
func (s *StatsService) ProjectIssueStats(ctx context.Context, projectID int) (map[string]int, error) {
	fields, err := s.rdb.HGetAll(ctx, fmt.Sprintf("project-stats:%d", projectID)).Result()
	if err != nil {
		logger.Error().Err(err).Msgf("Error reading stats for project %d", projectID)
		return nil, err
	}

	stats := make(map[string]int, len(fields))
	for status, raw := range fields {
		count, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		stats[status] = count
	}

	return stats, nil
}
