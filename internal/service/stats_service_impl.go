package service

import (
	"context"

	"coachflow/internal/domain"
	"coachflow/internal/repository"
)

const defaultStatsWindowDays = 30

type statsService struct {
	stats repository.StatsRepo
}

func NewStatsService(stats repository.StatsRepo) StatsService {
	return &statsService{stats: stats}
}

func (s *statsService) Report(ctx context.Context, windowDays int) (*domain.StatsReport, error) {
	if windowDays <= 0 {
		windowDays = defaultStatsWindowDays
	}
	return s.stats.Aggregate(ctx, windowDays)
}
