package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsdeck/oddsdeck/pkg/models"
)

func testEvent(id string, region models.Region) models.Event {
	return models.Event{
		ID:            id,
		Sport:         "basketball",
		League:        "NBA",
		HomeTeam:      "Boston Celtics",
		AwayTeam:      "Miami Heat",
		Region:        region,
		MoneylineHome: "-110",
		MoneylineAway: "+105",
		CommenceTime:  time.Date(2025, 6, 15, 19, 0, 0, 0, time.UTC),
		GameType:      models.GameTypeRegular,
	}
}

func TestUpsert_BatchesIntoSingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(0, 2))

	s := NewEventStore(db)
	err = s.Upsert(context.Background(), []models.Event{
		testEvent("e1", models.RegionUS),
		testEvent("e1", models.RegionUK),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_EmptySliceIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewEventStore(db)
	require.NoError(t, s.Upsert(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_WrapsDriverError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO events").
		WillReturnError(assert.AnError)

	s := NewEventStore(db)
	err = s.Upsert(context.Background(), []models.Event{testEvent("e1", models.RegionUS)})

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "upsert events")
}

func TestPruneFinished(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM events").
		WithArgs("86400 seconds").
		WillReturnResult(sqlmock.NewResult(0, 7))

	s := NewEventStore(db)
	n, err := s.PruneFinished(context.Background(), 24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
