package service

import (
	"context"

	"fish_and_follow_backend/internal/contacts/transport"

	"github.com/google/uuid"
)

func (s *Service) Stats(ctx context.Context, organizationID uuid.UUID) (*transport.StatsResponse, error) {
	stats, err := s.repo.Stats(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	byStatus := make([]transport.StatusCount, len(stats.ByStatus))
	for i, sc := range stats.ByStatus {
		byStatus[i] = transport.StatusCount{Number: sc.Number, Description: sc.Description, Count: sc.Count}
	}

	return &transport.StatsResponse{
		Success: true,
		Stats: transport.Stats{
			Total:         stats.Total,
			Interested:    stats.Interested,
			NotInterested: stats.NotInterested,
			MaleCount:     stats.MaleCount,
			FemaleCount:   stats.FemaleCount,
			ByStatus:      byStatus,
		},
		Timestamp: s.now().UTC(),
	}, nil
}
