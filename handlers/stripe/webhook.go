package stripe

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/m3rcey/crwn/db"
	"github.com/m3rcey/crwn/entitlement"
	"github.com/m3rcey/crwn/models"
	"github.com/m3rcey/crwn/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeWebhookHandler maintains the subscription ledger from Stripe events.
// The entitlement engine only ever reads the rows written here.
func StripeWebhookHandler(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to read the request body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, secret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stripe signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		handleCheckoutSessionCompleted(c, event)
	case "invoice.paid":
		handleInvoicePaid(c, event)
	case "invoice.payment_failed":
		handleInvoicePaymentFailed(c, event)
	case "customer.subscription.updated":
		handleSubscriptionUpdated(c, event)
	case "customer.subscription.deleted":
		handleSubscriptionDeleted(c, event)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
	}
}

func handleCheckoutSessionCompleted(c *gin.Context, event stripe.Event) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing CheckoutSession"})
		return
	}

	fanID := session.Metadata["fan_id"]
	artistID := session.Metadata["artist_id"]
	if fanID == "" || artistID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing metadata in checkout session"})
		return
	}

	kind := models.SubscriptionKind(session.Metadata["kind"])
	if kind == "" {
		kind = models.KindSubscription
	}

	var stripeSubID string
	if session.Subscription != nil {
		stripeSubID = session.Subscription.ID
		var existing models.Subscription
		if err := db.DB.First(&existing, "stripe_subscription_id = ?", stripeSubID).Error; err == nil {
			c.JSON(http.StatusOK, gin.H{"message": "Stripe subscription already recorded"})
			return
		}
	}

	var customerID string
	if session.Customer != nil {
		customerID = session.Customer.ID
	}

	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)
	if kind == models.KindPurchase {
		// a purchase never expires
		periodEnd = models.PurchasePeriodEnd
	} else {
		var dup models.Subscription
		if err := db.DB.Where("fan_id = ? AND artist_profile_id = ? AND kind = ? AND status = ? AND current_period_end > NOW()",
			fanID, artistID, models.KindSubscription, entitlement.StatusActive).
			First(&dup).Error; err == nil {
			c.JSON(http.StatusOK, gin.H{"message": "Local subscription already exists"})
			return
		}
	}

	sub := models.Subscription{
		FanID:                fanID,
		ArtistProfileID:      artistID,
		TierID:               session.Metadata["tier_id"],
		Kind:                 kind,
		Status:               entitlement.StatusActive,
		CurrentPeriodStart:   now,
		CurrentPeriodEnd:     periodEnd,
		StripeSubscriptionId: stripeSubID,
		StripeCustomerId:     customerID,
	}

	if err := db.DB.Create(&sub).Error; err != nil {
		utils.LogError(err, "Error creating the ledger row in handleCheckoutSessionCompleted")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription created"})
}

// stripeSubscriptionID digs the subscription ID out of an invoice payload.
// Newer API versions nest it under parent.subscription_details.
func stripeSubscriptionID(raw map[string]interface{}) string {
	if parent, ok := raw["parent"].(map[string]interface{}); ok {
		if details, ok := parent["subscription_details"].(map[string]interface{}); ok {
			if id, ok := details["subscription"].(string); ok && id != "" {
				return id
			}
		}
	}
	if id, ok := raw["subscription"].(string); ok {
		return id
	}
	return ""
}

func handleInvoicePaid(c *gin.Context, event stripe.Event) {
	var raw map[string]interface{}
	if err := json.Unmarshal(event.Data.Raw, &raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Invoice"})
		return
	}

	stripeSubID := stripeSubscriptionID(raw)
	if stripeSubID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	var sub models.Subscription
	if err := db.DB.First(&sub, "stripe_subscription_id = ?", stripeSubID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Local subscription not found"})
		return
	}

	updates := map[string]interface{}{
		"status": entitlement.StatusActive,
	}
	// the invoice period is the authoritative validity window
	if start, ok := raw["period_start"].(float64); ok {
		updates["current_period_start"] = time.Unix(int64(start), 0)
	}
	if end, ok := raw["period_end"].(float64); ok {
		updates["current_period_end"] = time.Unix(int64(end), 0)
	}

	if err := db.DB.Model(&sub).Updates(updates).Error; err != nil {
		utils.LogError(err, "Error advancing the period in handleInvoicePaid")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating subscription"})
		return
	}

	amount := 0
	if paid, ok := raw["amount_paid"].(float64); ok {
		amount = int(paid)
	}
	paymentIntentID, _ := raw["payment_intent"].(string)
	if err := recordPayment(sub.ID, amount, paymentIntentID); err != nil {
		utils.LogError(err, "Error recording the payment in handleInvoicePaid")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription renewed"})
}

// recordPayment stores a settled payment once, keyed on the payment intent.
func recordPayment(subscriptionID string, amount int, paymentIntentID string) error {
	if paymentIntentID != "" {
		var existing models.SubscriptionPayment
		if err := db.DB.First(&existing, "stripe_payment_intent_id = ?", paymentIntentID).Error; err == nil {
			return nil
		}
	}

	return db.DB.Create(&models.SubscriptionPayment{
		SubscriptionID:        subscriptionID,
		Amount:                amount,
		PaidAt:                time.Now(),
		StripePaymentIntentId: paymentIntentID,
	}).Error
}

func handleInvoicePaymentFailed(c *gin.Context, event stripe.Event) {
	var raw map[string]interface{}
	if err := json.Unmarshal(event.Data.Raw, &raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Invoice"})
		return
	}

	stripeSubID := stripeSubscriptionID(raw)
	if stripeSubID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	if err := db.DB.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubID).
		Update("status", entitlement.StatusPastDue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription marked past_due"})
}

// mapStripeStatus folds Stripe's subscription statuses onto the ledger's
// three states.
func mapStripeStatus(status string) entitlement.SubscriptionStatus {
	switch status {
	case "active", "trialing":
		return entitlement.StatusActive
	case "past_due", "unpaid":
		return entitlement.StatusPastDue
	default:
		return entitlement.StatusCanceled
	}
}

func handleSubscriptionUpdated(c *gin.Context, event stripe.Event) {
	var raw map[string]interface{}
	if err := json.Unmarshal(event.Data.Raw, &raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Subscription"})
		return
	}

	stripeSubID, _ := raw["id"].(string)
	if stripeSubID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	var sub models.Subscription
	if err := db.DB.First(&sub, "stripe_subscription_id = ?", stripeSubID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Local subscription not found"})
		return
	}

	updates := map[string]interface{}{}
	if status, ok := raw["status"].(string); ok {
		updates["status"] = mapStripeStatus(status)
	}
	if start, ok := raw["current_period_start"].(float64); ok {
		updates["current_period_start"] = time.Unix(int64(start), 0)
	}
	if end, ok := raw["current_period_end"].(float64); ok {
		updates["current_period_end"] = time.Unix(int64(end), 0)
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&sub).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating subscription"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription updated"})
}

func handleSubscriptionDeleted(c *gin.Context, event stripe.Event) {
	var raw map[string]interface{}
	if err := json.Unmarshal(event.Data.Raw, &raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Subscription"})
		return
	}

	stripeSubID, _ := raw["id"].(string)
	if stripeSubID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	if err := db.DB.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubID).
		Update("status", entitlement.StatusCanceled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription canceled"})
}
