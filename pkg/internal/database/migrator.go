package database

import (
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Call{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}

// PurgeSoftDeleted drops rows soft-deleted before deadline for every
// maintained model.
func PurgeSoftDeleted(source *gorm.DB, deadline time.Time) int64 {
	var count int64
	for _, model := range AutoMaintainRange {
		tx := source.Unscoped().Delete(model, "deleted_at < ?", deadline)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running database cleanup...")
		}
		count += tx.RowsAffected
	}
	return count
}
