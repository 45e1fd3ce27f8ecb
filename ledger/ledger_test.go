package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/m3rcey/crwn/entitlement"
	"github.com/m3rcey/crwn/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestLookup_ReturnsMostRecentRow(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	fanID := "123e4567-e89b-12d3-a456-426614174000"
	artistID := "abc12345-e89b-12d3-a456-426614174000"
	periodEnd := time.Now().AddDate(0, 0, 10)

	mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE fan_id = \$1 AND artist_profile_id = \$2 ORDER BY current_period_end DESC(.+)LIMIT \$3`).
		WithArgs(fanID, artistID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "fan_id", "artist_profile_id", "status", "current_period_start", "current_period_end"}).
			AddRow("sub-1", fanID, artistID, "active", periodEnd.AddDate(0, -1, 0), periodEnd))

	record, err := Lookup(fanID, artistID)
	assert.NoError(t, err)
	assert.NotNil(t, record)
	assert.Equal(t, entitlement.StatusActive, record.Status)
	assert.True(t, record.GrantsAt(time.Now()))
}

func TestLookup_NoRowMeansNilRecord(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "subscriptions"`).
		WillReturnError(gorm.ErrRecordNotFound)

	record, err := Lookup("fan-1", "artist-1")
	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestLookup_ErrorPropagates(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "subscriptions"`).
		WillReturnError(errors.New("connection refused"))

	record, err := Lookup("fan-1", "artist-1")
	assert.Error(t, err)
	assert.Nil(t, record)
}

func TestCached_OneReadPerPair(t *testing.T) {
	calls := 0
	record := &entitlement.SubscriptionRecord{
		FanID:    "fan-1",
		ArtistID: "artist-1",
		Status:   entitlement.StatusActive,
	}
	lookup := Cached(func(fanID, artistID string) (*entitlement.SubscriptionRecord, error) {
		calls++
		return record, nil
	})

	for i := 0; i < 5; i++ {
		got, err := lookup("fan-1", "artist-1")
		assert.NoError(t, err)
		assert.Equal(t, record, got)
	}
	assert.Equal(t, 1, calls)

	// a different pair is a different key
	_, _ = lookup("fan-2", "artist-1")
	assert.Equal(t, 2, calls)
}

func TestCached_ErrorsAreMemoizedToo(t *testing.T) {
	calls := 0
	failure := errors.New("ledger down")
	lookup := Cached(func(fanID, artistID string) (*entitlement.SubscriptionRecord, error) {
		calls++
		return nil, failure
	})

	_, err := lookup("fan-1", "artist-1")
	assert.ErrorIs(t, err, failure)
	_, err = lookup("fan-1", "artist-1")
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1, calls)
}
