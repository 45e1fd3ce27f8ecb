// Package ledger adapts the subscriptions table to the entitlement engine's
// lookup dependency.
package ledger

import (
	"errors"
	"sync"

	"github.com/m3rcey/crwn/db"
	"github.com/m3rcey/crwn/entitlement"
	"github.com/m3rcey/crwn/models"

	"gorm.io/gorm"
)

// Lookup returns the most recent ledger row for a (fan, artist) pair, or nil
// when none exists. Status and window checks are left to the engine so the
// rules live in exactly one place. Errors propagate so the engine can fail
// closed.
func Lookup(fanID, artistID string) (*entitlement.SubscriptionRecord, error) {
	var sub models.Subscription
	err := db.DB.
		Where("fan_id = ? AND artist_profile_id = ?", fanID, artistID).
		Order("current_period_end DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub.Record(), nil
}

// Cached memoizes a lookup for the lifetime of one request, keyed on the
// (fan, artist) pair. Handlers that evaluate many items from the same artist
// wrap Lookup with it so a page render costs one ledger read. The cache must
// not outlive the request: a longer-lived one could outlive a period_end.
func Cached(next entitlement.LookupFunc) entitlement.LookupFunc {
	type key struct {
		fanID    string
		artistID string
	}
	type result struct {
		record *entitlement.SubscriptionRecord
		err    error
	}

	var mu sync.Mutex
	seen := make(map[key]result)

	return func(fanID, artistID string) (*entitlement.SubscriptionRecord, error) {
		k := key{fanID, artistID}

		mu.Lock()
		if r, ok := seen[k]; ok {
			mu.Unlock()
			return r.record, r.err
		}
		mu.Unlock()

		record, err := next(fanID, artistID)

		mu.Lock()
		seen[k] = result{record, err}
		mu.Unlock()

		return record, err
	}
}
