// Package background contains work that runs outside the request cycle.
// The stats aggregator periodically reconciles denormalized course columns
// with the underlying review and enrollment data.
package background

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const statsTickerDuration = 5 * time.Minute

// StartCourseStatsService launches the aggregator goroutine. It recomputes
// course ratings on each tick and exits when stopChan is closed. The
// returned WaitGroup lets the caller block until the goroutine drains.
func StartCourseStatsService(dbPool *pgxpool.Pool, stopChan <-chan struct{}) *sync.WaitGroup {
	log.Println("course stats aggregator starting")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer log.Println("course stats aggregator stopped")

		ticker := time.NewTicker(statsTickerDuration)
		defer ticker.Stop()

		// Reconcile once on startup so a restart does not wait a full tick.
		reconcileCourseStats(dbPool)

		for {
			select {
			case <-ticker.C:
				reconcileCourseStats(dbPool)
			case <-stopChan:
				return
			}
		}
	}()

	return &wg
}

// reconcileCourseStats rewrites every course's rating from its reviews in a
// single statement. Per-review refreshes keep ratings fresh in the hot
// path; this pass repairs drift from crashes or manual data edits.
func reconcileCourseStats(dbPool *pgxpool.Pool) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	query := `
		UPDATE courses c SET rating = COALESCE(r.avg_rating, 0)
		FROM (
		    SELECT course_id, AVG(rating)::float8 AS avg_rating
		    FROM reviews GROUP BY course_id
		) r
		WHERE c.id = r.course_id AND c.rating IS DISTINCT FROM COALESCE(r.avg_rating, 0)`

	tag, err := dbPool.Exec(ctx, query)
	if err != nil {
		log.Printf("course stats aggregator: reconcile failed: %v", err)
		return
	}
	if n := tag.RowsAffected(); n > 0 {
		log.Printf("course stats aggregator: corrected %d course rating(s)", n)
	}
}
