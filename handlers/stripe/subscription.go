package stripe

import (
	"net/http"
	"os"

	"github.com/m3rcey/crwn/db"
	"github.com/m3rcey/crwn/entitlement"
	"github.com/m3rcey/crwn/models"
	"github.com/m3rcey/crwn/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	session "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	stripeSubscription "github.com/stripe/stripe-go/v82/subscription"
)

// platform cut on artist subscriptions, in percent
const applicationFeePercent = 8

func ensureStripeCustomer(c *gin.Context, payer *models.User) bool {
	if payer.StripeCustomerId != "" {
		// make sure the customer still exists on Stripe
		if _, err := customer.Get(payer.StripeCustomerId, nil); err != nil {
			payer.StripeCustomerId = ""
		}
	}
	if payer.StripeCustomerId == "" {
		cust, err := customer.New(&stripe.CustomerParams{
			Name:  stripe.String(payer.DisplayName),
			Email: stripe.String(payer.Email),
		})
		if err != nil {
			utils.LogErrorWithUser(payer.ID, err, "Error creating the Stripe customer")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the Stripe customer"})
			return false
		}
		db.DB.Model(payer).Update("stripe_customer_id", cust.ID)
		payer.StripeCustomerId = cust.ID
	}
	return true
}

// @Summary Create a Stripe Checkout session for a subscription
// @Description Start a Stripe payment to subscribe to an artist tier. Returns the Stripe session ID and URL for the frontend.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param artistId path string true "Artist profile ID"
// @Param body body map[string]string true "tierId: tier to subscribe to"
// @Security BearerAuth
// @Success 200 {object} map[string]string "sessionId, url"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Artist or tier not found"
// @Failure 409 {object} map[string]string "error: Already subscribed"
// @Failure 500 {object} map[string]string "error: Stripe error or server error"
// @Router /subscriptions/checkout/{artistId} [post]
func CreateSubscriptionCheckoutSession(c *gin.Context) {
	artistID := c.Param("artistId")

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body struct {
		TierID string `json:"tierId" binding:"required"`
	}
	if !utils.ValidateRequestBody(c, &body) {
		return
	}

	var payer models.User
	if err := db.DB.First(&payer, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var artist models.ArtistProfile
	if err := db.DB.First(&artist, "id = ?", artistID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}

	var tier models.SubscriptionTier
	if err := db.DB.First(&tier, "id = ? AND artist_profile_id = ?", body.TierID, artist.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tier not found for this artist"})
		return
	}

	var existingSub models.Subscription
	err := db.DB.Where("fan_id = ? AND artist_profile_id = ? AND status = ? AND current_period_end > NOW()",
		payer.ID, artist.ID, entitlement.StatusActive).First(&existingSub).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have an active subscription with this artist."})
		return
	}

	if !ensureStripeCustomer(c, &payer) {
		return
	}

	baseURL := os.Getenv("BASE_URL")

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(payer.StripeCustomerId),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(tier.StripePriceId),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(baseURL + "/artist/" + artist.Slug + "?subscription=success"),
		CancelURL:  stripe.String(baseURL + "/artist/" + artist.Slug + "?subscription=canceled"),
	}

	if artist.StripeConnectId != "" {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			ApplicationFeePercent: stripe.Float64(applicationFeePercent),
			TransferData: &stripe.CheckoutSessionSubscriptionDataTransferDataParams{
				Destination: stripe.String(artist.StripeConnectId),
			},
		}
	}

	params.AddMetadata("fan_id", payer.ID)
	params.AddMetadata("artist_id", artist.ID)
	params.AddMetadata("tier_id", tier.ID)
	params.AddMetadata("kind", string(models.KindSubscription))

	s, err := session.New(params)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the Stripe session in CreateSubscriptionCheckoutSession")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Stripe subscription session created in CreateSubscriptionCheckoutSession")
	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
}

// @Summary Create a Stripe Checkout session for a one-time track purchase
// @Description Start a Stripe payment to buy a purchase-level track. The resulting ledger record never expires.
// @Tags subscriptions
// @Produce json
// @Param id path string true "Track ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "sessionId, url"
// @Failure 400 {object} map[string]string "error: Track is not purchasable"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Track not found"
// @Failure 500 {object} map[string]string "error: Stripe error or server error"
// @Router /tracks/{id}/purchase [post]
func CreateTrackPurchaseSession(c *gin.Context) {
	trackID := c.Param("id")

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var track models.Track
	if err := db.DB.Preload("Artist").First(&track, "id = ?", trackID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Track not found"})
		return
	}

	if track.AccessLevel != entitlement.AccessPurchase || track.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This track is not purchasable"})
		return
	}

	var payer models.User
	if err := db.DB.First(&payer, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !ensureStripeCustomer(c, &payer) {
		return
	}

	baseURL := os.Getenv("BASE_URL")

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(payer.StripeCustomerId),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(int64(track.Price)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(track.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(baseURL + "/tracks/" + track.ID + "?purchase=success"),
		CancelURL:  stripe.String(baseURL + "/tracks/" + track.ID + "?purchase=canceled"),
	}

	params.AddMetadata("fan_id", payer.ID)
	params.AddMetadata("artist_id", track.ArtistProfileID)
	params.AddMetadata("kind", string(models.KindPurchase))

	s, err := session.New(params)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the Stripe session in CreateTrackPurchaseSession")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Stripe purchase session created in CreateTrackPurchaseSession")
	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
}

// @Summary Cancel a subscription
// @Description Cancel a Stripe subscription and update its status in the ledger
// @Tags subscriptions
// @Produce json
// @Param subscriptionId path string true "ID of the subscription to cancel"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Subscription canceled successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not authorized"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Failure 500 {object} map[string]string "error: Stripe error"
// @Router /subscriptions/{subscriptionId} [delete]
func CancelSubscription(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	subscriptionID := c.Param("subscriptionId")

	if _, err := uuid.Parse(subscriptionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subscription models.Subscription
	if err := db.DB.First(&subscription, "id = ?", subscriptionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	if subscription.FanID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to cancel this subscription"})
		return
	}

	if subscription.Kind == models.KindPurchase {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A one-time purchase cannot be canceled"})
		return
	}

	if _, err := stripeSubscription.Cancel(subscription.StripeSubscriptionId, &stripe.SubscriptionCancelParams{
		Prorate: stripe.Bool(false),
	}); err != nil {
		utils.LogErrorWithUser(userID, err, "Stripe cancel error in CancelSubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error when canceling the Stripe subscription"})
		return
	}

	if err := db.DB.Model(&subscription).Update("status", entitlement.StatusCanceled).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error updating the status in CancelSubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error when updating the subscription status"})
		return
	}

	utils.LogSuccessWithUser(userID, "Subscription canceled in CancelSubscription")
	c.JSON(http.StatusOK, gin.H{"message": "Subscription canceled successfully"})
}

// @Summary List the user's subscriptions
// @Description Return all the subscriptions and purchases of the connected user
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /subscriptions [get]
func GetUserSubscriptions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subscriptions []models.Subscription
	if err := db.DB.Where("fan_id = ?", userID).Order("created_at DESC").Find(&subscriptions).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching subscriptions in GetUserSubscriptions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subscriptions)
}

// @Summary Details of a subscription
// @Tags subscriptions
// @Produce json
// @Param subscriptionId path string true "ID of the subscription"
// @Security BearerAuth
// @Success 200 {object} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not authorized"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Router /subscriptions/{subscriptionId} [get]
func GetSubscriptionDetail(c *gin.Context) {
	subscriptionID := c.Param("subscriptionId")

	if _, err := uuid.Parse(subscriptionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subscription models.Subscription
	if err := db.DB.First(&subscription, "id = ?", subscriptionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	if subscription.FanID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view this subscription"})
		return
	}

	c.JSON(http.StatusOK, subscription)
}

// @Summary Total platform revenue
// @Description Sum of all recorded subscription payments, admin only
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "totalRevenue in cents"
// @Failure 403 {object} map[string]string "error: Admin role required"
// @Router /subscriptions/revenue [get]
func GetTotalRevenue(c *gin.Context) {
	var total int64
	if err := db.DB.Model(&models.SubscriptionPayment{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing revenue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalRevenue": total})
}

// @Summary Top artists by active subscriptions
// @Description Artists ranked by number of currently granting subscriptions, admin only
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} map[string]interface{} "artistProfileId, subscribers"
// @Failure 403 {object} map[string]string "error: Admin role required"
// @Router /subscriptions/top-artists [get]
func GetTopArtists(c *gin.Context) {
	type row struct {
		ArtistProfileID string `json:"artistProfileId"`
		Subscribers     int64  `json:"subscribers"`
	}

	var rows []row
	if err := db.DB.Model(&models.Subscription{}).
		Select("artist_profile_id, COUNT(*) as subscribers").
		Where("status = ? AND current_period_end > NOW()", entitlement.StatusActive).
		Group("artist_profile_id").
		Order("subscribers DESC").
		Limit(10).
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing top artists"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
