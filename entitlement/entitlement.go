// Package entitlement decides whether a viewer can access a piece of gated
// content (track, community post). It is the single place where access rules
// live: handlers must delegate here instead of re-deriving checks.
//
// The engine is pure: it reads the subscription ledger through an injected
// lookup function, never writes anything, and always resolves to one of the
// three decisions. A failed ledger lookup denies access, it never grants it.
package entitlement

import "time"

// AccessLevel is the gating tier assigned to a content item.
type AccessLevel string

const (
	AccessFree       AccessLevel = "free"
	AccessSubscriber AccessLevel = "subscriber"
	AccessPurchase   AccessLevel = "purchase"
)

// SubscriptionStatus mirrors the ledger's status column.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
)

// Decision is the outcome of an entitlement check.
type Decision string

const (
	Granted     Decision = "granted"
	PreviewOnly Decision = "preview"
	Denied      Decision = "denied"
)

// PreviewSeconds is the fixed preview length for gated audio.
const PreviewSeconds = 30

const (
	ReasonSubscriptionRequired = "subscription required"
	ReasonLookupFailed         = "entitlement check failed"
	ReasonUnknownAccessLevel   = "unknown access level"
)

// Viewer identifies who is asking. The zero value is anonymous.
type Viewer struct {
	ID string
}

func Anonymous() Viewer {
	return Viewer{}
}

func (v Viewer) IsAnonymous() bool {
	return v.ID == ""
}

// Content is the catalog's view of a gated item. Audio content supports a
// clipped preview; everything else is all-or-nothing.
type Content interface {
	AccessLevel() AccessLevel
	OwnerArtistID() string
	IsAudio() bool
	DurationSeconds() int
}

// SubscriptionRecord is one row of the ledger linking a fan to an artist.
// One-time purchases are represented the same way, with an effectively
// unbounded PeriodEnd.
type SubscriptionRecord struct {
	FanID       string
	ArtistID    string
	Status      SubscriptionStatus
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// GrantsAt reports whether the record grants access at the given instant.
// The validity window is half-open: now == PeriodEnd is already expired.
func (r SubscriptionRecord) GrantsAt(now time.Time) bool {
	return r.Status == StatusActive && now.Before(r.PeriodEnd)
}

// LookupFunc fetches the most recent ledger record for a (fan, artist) pair.
// A nil record with a nil error means no row exists.
type LookupFunc func(fanID, artistID string) (*SubscriptionRecord, error)

// Access is the engine's answer: what to serve and why.
type Access struct {
	Decision       Decision    `json:"decision"`
	Level          AccessLevel `json:"accessLevel"`
	Reason         string      `json:"reason,omitempty"`
	PreviewSeconds int         `json:"previewSeconds,omitempty"`
}

// Engine evaluates entitlement decisions against an injected ledger lookup.
// Now may be overridden in tests; when nil, time.Now is used. An Engine holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	Lookup LookupFunc
	Now    func() time.Time
}

func New(lookup LookupFunc) *Engine {
	return &Engine{Lookup: lookup, Now: time.Now}
}

// Evaluate decides full, preview or no access for a viewer and content item.
// Free content never touches the ledger. Unknown access levels and ledger
// failures fail closed.
func (e *Engine) Evaluate(viewer Viewer, content Content) Access {
	level := content.AccessLevel()

	switch level {
	case AccessFree:
		return Access{Decision: Granted, Level: AccessFree}
	case AccessSubscriber, AccessPurchase:
		// gated, keep going
	default:
		return Access{Decision: Denied, Level: level, Reason: ReasonUnknownAccessLevel}
	}

	if viewer.IsAnonymous() {
		return locked(content, ReasonSubscriptionRequired)
	}

	record, err := e.Lookup(viewer.ID, content.OwnerArtistID())
	if err != nil {
		return Access{Decision: Denied, Level: level, Reason: ReasonLookupFailed}
	}

	if record == nil || !record.GrantsAt(e.clock()) {
		return locked(content, ReasonSubscriptionRequired)
	}

	return Access{Decision: Granted, Level: level}
}

func (e *Engine) clock() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// locked resolves a non-entitled viewer to a preview when the content type
// supports one, otherwise to a denial.
func locked(content Content, reason string) Access {
	if seconds, ok := PreviewWindow(content); ok {
		return Access{
			Decision:       PreviewOnly,
			Level:          content.AccessLevel(),
			Reason:         reason,
			PreviewSeconds: seconds,
		}
	}
	return Access{Decision: Denied, Level: content.AccessLevel(), Reason: reason}
}

// PreviewWindow returns the preview length in seconds for gated audio,
// clamped to the track duration when the track is shorter than the fixed
// window. Non-audio content has no preview concept: a gated post is shown
// only as a locked placeholder, never its body.
func PreviewWindow(content Content) (int, bool) {
	if !content.IsAudio() || content.AccessLevel() == AccessFree {
		return 0, false
	}
	seconds := PreviewSeconds
	if d := content.DurationSeconds(); d > 0 && d < seconds {
		seconds = d
	}
	return seconds, true
}
