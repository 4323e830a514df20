package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Totals struct {
	Total         int
	Interested    int
	NotInterested int
	MaleCount     int
	FemaleCount   int
}

type StatusCount struct {
	Number      int
	Description string
	Count       int
}

type Stats struct {
	Totals
	ByStatus []StatusCount
}

const totalsQuery = `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE is_interested),
	COUNT(*) FILTER (WHERE NOT is_interested),
	COUNT(*) FILTER (WHERE gender = 'male'),
	COUNT(*) FILTER (WHERE gender = 'female')
FROM contact
WHERE org_id = $1`

const byStatusQuery = `
SELECT s.number, s.description, COUNT(c.id)
FROM follow_up_status s
LEFT JOIN contact c ON c.follow_up_status = s.number AND c.org_id = $1
GROUP BY s.number, s.description
ORDER BY s.number ASC`

// Stats loads the aggregate counters and the per-status breakdown concurrently.
func (r *Repository) Stats(ctx context.Context, organizationID uuid.UUID) (Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var total, interested, notInterested, male, female int64
		if err := r.pool.QueryRow(gctx, totalsQuery, organizationID).Scan(&total, &interested, &notInterested, &male, &female); err != nil {
			return fmt.Errorf("contact totals: %w", err)
		}
		stats.Totals = Totals{
			Total:         int(total),
			Interested:    int(interested),
			NotInterested: int(notInterested),
			MaleCount:     int(male),
			FemaleCount:   int(female),
		}
		return nil
	})

	g.Go(func() error {
		rows, err := r.pool.Query(gctx, byStatusQuery, organizationID)
		if err != nil {
			return fmt.Errorf("contacts by status: %w", err)
		}
		defer rows.Close()

		byStatus := make([]StatusCount, 0)
		for rows.Next() {
			var sc StatusCount
			var count int64
			if err := rows.Scan(&sc.Number, &sc.Description, &count); err != nil {
				return fmt.Errorf("scan status count: %w", err)
			}
			sc.Count = int(count)
			byStatus = append(byStatus, sc)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		stats.ByStatus = byStatus
		return nil
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
