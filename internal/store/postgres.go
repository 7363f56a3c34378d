package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/oddsdeck/oddsdeck/pkg/models"
)

// EventStore is the durable write-through sink for canonical events, keyed
// by (event_id, region). The pipeline never reads from it on the hot path;
// it exists for cross-session caching and offline analysis.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates a store around an open connection.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// Upsert batch-writes events, replacing existing rows with the same
// (event_id, region). Batching goes through UNNEST so one statement covers
// the whole slice.
func (s *EventStore) Upsert(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	query := `
		INSERT INTO events (
			event_id, region, sport, league, home_team, away_team,
			home_score, away_score, moneyline_home, moneyline_away,
			moneyline_draw, spread, total, venue, commence_time,
			is_live, game_type, updated_at
		)
		SELECT UNNEST($1::text[]), UNNEST($2::text[]), UNNEST($3::text[]),
		       UNNEST($4::text[]), UNNEST($5::text[]), UNNEST($6::text[]),
		       UNNEST($7::int[]), UNNEST($8::int[]), UNNEST($9::text[]),
		       UNNEST($10::text[]), UNNEST($11::text[]), UNNEST($12::text[]),
		       UNNEST($13::text[]), UNNEST($14::text[]), UNNEST($15::timestamptz[]),
		       UNNEST($16::boolean[]), UNNEST($17::text[]), NOW()
		ON CONFLICT (event_id, region)
		DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			moneyline_home = EXCLUDED.moneyline_home,
			moneyline_away = EXCLUDED.moneyline_away,
			moneyline_draw = EXCLUDED.moneyline_draw,
			spread = EXCLUDED.spread,
			total = EXCLUDED.total,
			is_live = EXCLUDED.is_live,
			updated_at = NOW()
	`

	n := len(events)
	ids := make([]string, n)
	regions := make([]string, n)
	sports := make([]string, n)
	leagues := make([]string, n)
	homeTeams := make([]string, n)
	awayTeams := make([]string, n)
	homeScores := make([]int, n)
	awayScores := make([]int, n)
	mlHome := make([]string, n)
	mlAway := make([]string, n)
	mlDraw := make([]string, n)
	spreads := make([]string, n)
	totals := make([]string, n)
	venues := make([]string, n)
	commenceTimes := make([]time.Time, n)
	isLives := make([]bool, n)
	gameTypes := make([]string, n)

	for i, evt := range events {
		ids[i] = evt.ID
		regions[i] = string(evt.Region)
		sports[i] = evt.Sport
		leagues[i] = evt.League
		homeTeams[i] = evt.HomeTeam
		awayTeams[i] = evt.AwayTeam
		homeScores[i] = evt.HomeScore
		awayScores[i] = evt.AwayScore
		mlHome[i] = evt.MoneylineHome
		mlAway[i] = evt.MoneylineAway
		mlDraw[i] = evt.MoneylineDraw
		spreads[i] = evt.Spread
		totals[i] = evt.Total
		venues[i] = evt.Venue
		commenceTimes[i] = evt.CommenceTime
		isLives[i] = evt.IsLive
		gameTypes[i] = string(evt.GameType)
	}

	_, err := s.db.ExecContext(ctx, query,
		pq.Array(ids), pq.Array(regions), pq.Array(sports), pq.Array(leagues),
		pq.Array(homeTeams), pq.Array(awayTeams), pq.Array(homeScores),
		pq.Array(awayScores), pq.Array(mlHome), pq.Array(mlAway),
		pq.Array(mlDraw), pq.Array(spreads), pq.Array(totals),
		pq.Array(venues), pq.Array(commenceTimes), pq.Array(isLives),
		pq.Array(gameTypes),
	)
	if err != nil {
		return fmt.Errorf("upsert events: %w", err)
	}
	return nil
}

// PruneFinished deletes rows whose events finished more than the retention
// window ago.
func (s *EventStore) PruneFinished(ctx context.Context, retention time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM events WHERE commence_time < NOW() - $1::interval`,
		fmt.Sprintf("%d seconds", int(retention.Seconds())),
	)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}

// Ping reports connectivity, for health checks.
func (s *EventStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
