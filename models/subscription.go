package models

import (
	"time"

	"github.com/m3rcey/crwn/entitlement"
)

type SubscriptionKind string

const (
	KindSubscription SubscriptionKind = "subscription"
	KindPurchase     SubscriptionKind = "purchase"
)

// PurchasePeriodEnd is the period end stored for one-time purchases so the
// entitlement window check treats them as never expiring.
var PurchasePeriodEnd = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

// Subscription is the ledger: one row per paid relationship between a fan
// and an artist. Rows are written by the Stripe webhook only; the rest of
// the application reads them through the entitlement engine.
type Subscription struct {
	ID                   string                         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FanID                string                         `json:"fanId" gorm:"type:uuid;not null;index:idx_subscriptions_pair"`
	ArtistProfileID      string                         `json:"artistProfileId" gorm:"type:uuid;not null;index:idx_subscriptions_pair"`
	TierID               string                         `json:"tierId" gorm:"type:uuid"`
	Kind                 SubscriptionKind               `json:"kind" gorm:"type:varchar(20);default:'subscription'"`
	Status               entitlement.SubscriptionStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	CurrentPeriodStart   time.Time                      `json:"currentPeriodStart"`
	CurrentPeriodEnd     time.Time                      `json:"currentPeriodEnd"`
	StripeSubscriptionId string                         `json:"stripeSubscriptionId"`
	StripeCustomerId     string                         `json:"stripeCustomerId"`
	CreatedAt            time.Time                      `json:"createdAt"`
	UpdatedAt            time.Time                      `json:"updatedAt"`
}

// Record converts the row to the engine's ledger representation.
func (s Subscription) Record() *entitlement.SubscriptionRecord {
	return &entitlement.SubscriptionRecord{
		FanID:       s.FanID,
		ArtistID:    s.ArtistProfileID,
		Status:      s.Status,
		PeriodStart: s.CurrentPeriodStart,
		PeriodEnd:   s.CurrentPeriodEnd,
	}
}
