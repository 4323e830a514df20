package service

import (
	"context"
	_ "embed"
	"fmt"

	"fish_and_follow_backend/internal/followup/repository"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type seedDocument struct {
	Statuses []struct {
		Number      int    `yaml:"number"`
		Description string `yaml:"description"`
	} `yaml:"statuses"`
}

// DefaultStatuses parses the embedded default pipeline.
func DefaultStatuses() ([]repository.Status, error) {
	return parseSeed(defaultsYAML)
}

func parseSeed(data []byte) ([]repository.Status, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse follow-up seed: %w", err)
	}

	seen := make(map[int]bool, len(doc.Statuses))
	out := make([]repository.Status, 0, len(doc.Statuses))
	for _, s := range doc.Statuses {
		if s.Number < 1 || s.Description == "" {
			return nil, fmt.Errorf("follow-up seed: invalid status %d %q", s.Number, s.Description)
		}
		if seen[s.Number] {
			return nil, fmt.Errorf("follow-up seed: duplicate status %d", s.Number)
		}
		seen[s.Number] = true
		out = append(out, repository.Status{Number: s.Number, Description: s.Description})
	}
	return out, nil
}

// SeedDefaults inserts the default pipeline when no statuses exist yet.
func (s *Service) SeedDefaults(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults, err := DefaultStatuses()
	if err != nil {
		return err
	}
	inserted, err := s.repo.InsertMissing(ctx, defaults)
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.Info("seeded follow-up statuses", "inserted", inserted)
	return nil
}
