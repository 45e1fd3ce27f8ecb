package tracks

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/m3rcey/crwn/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

var trackColumns = []string{"id", "artist_profile_id", "title", "audio_url_128", "audio_url_320", "duration", "access_level", "price", "album_art_url", "release_date", "play_count", "created_at", "updated_at", "deleted_at"}

var subscriptionColumns = []string{"id", "fan_id", "artist_profile_id", "tier_id", "kind", "status", "current_period_start", "current_period_end", "stripe_subscription_id", "stripe_customer_id", "created_at", "updated_at"}

func TestStreamTrack_FreeTrackAnonymous(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	rows := mock.NewRows(trackColumns).
		AddRow("track-uuid-1", "artist-uuid-1", "Open Rehearsal", "https://cdn.example.com/t1-128.mp3", "https://cdn.example.com/t1-320.mp3", 180, "free", 0, "", now, 4, now, now, nil)

	mock.ExpectQuery(`SELECT \* FROM "tracks"`).WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tracks"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.GET("/tracks/:id/stream", StreamTrack)

	req, _ := http.NewRequest(http.MethodGet, "/tracks/track-uuid-1/stream", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Equal(t, "granted", body["decision"])
	assert.Equal(t, "https://cdn.example.com/t1-320.mp3", body["url"])

	// free tracks never hit the subscriptions table
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamTrack_SubscriberTrackAnonymousPreview(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	rows := mock.NewRows(trackColumns).
		AddRow("track-uuid-1", "artist-uuid-1", "Members Only", "https://cdn.example.com/t1-128.mp3", "https://cdn.example.com/t1-320.mp3", 180, "subscriber", 0, "", now, 0, now, now, nil)

	mock.ExpectQuery(`SELECT \* FROM "tracks"`).WillReturnRows(rows)

	r := testutils.SetupTestRouter()
	r.GET("/tracks/:id/stream", StreamTrack)

	req, _ := http.NewRequest(http.MethodGet, "/tracks/track-uuid-1/stream", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Equal(t, "preview", body["decision"])
	assert.Equal(t, "https://cdn.example.com/t1-128.mp3#t=0,30", body["url"])
	assert.Equal(t, float64(30), body["previewSeconds"])
	assert.NotEmpty(t, body["callToAction"])
}

func TestStreamTrack_ActiveSubscriptionGranted(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	trackRows := mock.NewRows(trackColumns).
		AddRow("track-uuid-1", "artist-uuid-1", "Members Only", "https://cdn.example.com/t1-128.mp3", "https://cdn.example.com/t1-320.mp3", 180, "subscriber", 0, "", now, 0, now, now, nil)

	subRows := mock.NewRows(subscriptionColumns).
		AddRow("sub-uuid-1", "fan-uuid-1", "artist-uuid-1", "tier-uuid-1", "subscription", "active", now.AddDate(0, -1, 0), now.AddDate(0, 1, 0), "sub_123", "cus_123", now, now)

	mock.ExpectQuery(`SELECT \* FROM "tracks"`).WillReturnRows(trackRows)
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).WillReturnRows(subRows)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tracks"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.GET("/tracks/:id/stream", func(c *gin.Context) {
		c.Set("user_id", "fan-uuid-1")
		StreamTrack(c)
	})

	req, _ := http.NewRequest(http.MethodGet, "/tracks/track-uuid-1/stream", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Equal(t, "granted", body["decision"])
	assert.Equal(t, "https://cdn.example.com/t1-320.mp3", body["url"])
}

func TestStreamTrack_ExpiredSubscriptionDenied(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	trackRows := mock.NewRows(trackColumns).
		AddRow("track-uuid-1", "artist-uuid-1", "Members Only", "https://cdn.example.com/t1-128.mp3", "", 180, "subscriber", 0, "", now, 0, now, now, nil)

	subRows := mock.NewRows(subscriptionColumns).
		AddRow("sub-uuid-1", "fan-uuid-1", "artist-uuid-1", "tier-uuid-1", "subscription", "active", now.AddDate(0, -2, 0), now.AddDate(0, -1, 0), "sub_123", "cus_123", now, now)

	mock.ExpectQuery(`SELECT \* FROM "tracks"`).WillReturnRows(trackRows)
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).WillReturnRows(subRows)

	r := testutils.SetupTestRouter()
	r.GET("/tracks/:id/stream", func(c *gin.Context) {
		c.Set("user_id", "fan-uuid-1")
		StreamTrack(c)
	})

	req, _ := http.NewRequest(http.MethodGet, "/tracks/track-uuid-1/stream", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Equal(t, "denied", body["decision"])
	assert.NotContains(t, body, "url")
	assert.NotEmpty(t, body["callToAction"])
}

func TestStreamTrack_LedgerErrorDenies(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	trackRows := mock.NewRows(trackColumns).
		AddRow("track-uuid-1", "artist-uuid-1", "Members Only", "https://cdn.example.com/t1-128.mp3", "", 180, "subscriber", 0, "", now, 0, now, now, nil)

	mock.ExpectQuery(`SELECT \* FROM "tracks"`).WillReturnRows(trackRows)
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).WillReturnError(gorm.ErrInvalidDB)

	r := testutils.SetupTestRouter()
	r.GET("/tracks/:id/stream", func(c *gin.Context) {
		c.Set("user_id", "fan-uuid-1")
		StreamTrack(c)
	})

	req, _ := http.NewRequest(http.MethodGet, "/tracks/track-uuid-1/stream", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	// a broken ledger must never degrade to a preview
	assert.Equal(t, http.StatusForbidden, resp.Code)

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Equal(t, "denied", body["decision"])
	assert.NotContains(t, body, "url")
	assert.NotContains(t, body, "previewSeconds")
}

func TestStreamTrack_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "tracks"`).WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.GET("/tracks/:id/stream", StreamTrack)

	req, _ := http.NewRequest(http.MethodGet, "/tracks/unknown/stream", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetArtistTracks_OneLedgerReadPerPage(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()

	artistRows := mock.NewRows([]string{"id", "user_id", "display_name", "slug"}).
		AddRow("artist-uuid-1", "user-uuid-9", "The Quiet Ones", "the-quiet-ones")

	trackRows := mock.NewRows(trackColumns).
		AddRow("track-uuid-1", "artist-uuid-1", "Track One", "u1-128", "u1-320", 180, "subscriber", 0, "", now, 0, now, now, nil).
		AddRow("track-uuid-2", "artist-uuid-1", "Track Two", "u2-128", "u2-320", 200, "subscriber", 0, "", now, 0, now, now, nil).
		AddRow("track-uuid-3", "artist-uuid-1", "Track Three", "u3-128", "u3-320", 220, "free", 0, "", now, 0, now, now, nil)

	subRows := mock.NewRows(subscriptionColumns).
		AddRow("sub-uuid-1", "fan-uuid-1", "artist-uuid-1", "tier-uuid-1", "subscription", "active", now.AddDate(0, -1, 0), now.AddDate(0, 1, 0), "sub_123", "cus_123", now, now)

	mock.ExpectQuery(`SELECT \* FROM "artist_profiles"`).WillReturnRows(artistRows)
	mock.ExpectQuery(`SELECT \* FROM "tracks"`).WillReturnRows(trackRows)
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).WillReturnRows(subRows)

	r := testutils.SetupTestRouter()
	r.GET("/artists/:slug/tracks", func(c *gin.Context) {
		c.Set("user_id", "fan-uuid-1")
		GetArtistTracks(c)
	})

	req, _ := http.NewRequest(http.MethodGet, "/artists/the-quiet-ones/tracks", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var views []TrackView
	json.Unmarshal(resp.Body.Bytes(), &views)
	assert.Len(t, views, 3)
	for _, view := range views {
		assert.Equal(t, "granted", string(view.Access.Decision))
	}

	// three gated tracks, one subscriptions query
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetArtistTracks_ArtistNotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "artist_profiles"`).WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.GET("/artists/:slug/tracks", GetArtistTracks)

	req, _ := http.NewRequest(http.MethodGet, "/artists/nobody/tracks", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
