package player

import (
	"errors"

	"github.com/m3rcey/crwn/db"
	"github.com/m3rcey/crwn/models"

	"gorm.io/gorm"
)

// GormStore persists favorites in the favorites table.
type GormStore struct{}

func (GormStore) ListFavorites(userID string) ([]string, error) {
	var favorites []models.Favorite
	if err := db.DB.Where("user_id = ?", userID).Find(&favorites).Error; err != nil {
		return nil, err
	}

	trackIDs := make([]string, 0, len(favorites))
	for _, f := range favorites {
		trackIDs = append(trackIDs, f.TrackID)
	}
	return trackIDs, nil
}

func (GormStore) AddFavorite(userID, trackID string) error {
	var existing models.Favorite
	err := db.DB.Where("user_id = ? AND track_id = ?", userID, trackID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.DB.Create(&models.Favorite{UserID: userID, TrackID: trackID}).Error
}

func (GormStore) RemoveFavorite(userID, trackID string) error {
	return db.DB.Where("user_id = ? AND track_id = ?", userID, trackID).
		Delete(&models.Favorite{}).Error
}
