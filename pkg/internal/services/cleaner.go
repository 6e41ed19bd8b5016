package services

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/database"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/directory"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func DoAutoCallCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if lk, ok := Directory.(*directory.LiveKit); ok {
		deadline := time.Now().Add(-viper.GetDuration("calling.stale_after"))
		log.Debug().Time("deadline", deadline).Msg("Now ending stale calls...")

		count, err := lk.EndStaleCalls(ctx, deadline)
		if err != nil {
			log.Error().Err(err).Msg("An error occurred when ending stale calls...")
		} else {
			M.StaleCallsEnded.Add(float64(count))
			log.Debug().Int("affected", count).Msg("Ending stale calls accomplished.")
		}

		retention := time.Now().Add(-viper.GetDuration("calling.history_retention"))
		if archived, err := lk.ArchiveEndedCalls(ctx, retention); err != nil {
			log.Error().Err(err).Msg("An error occurred when archiving ended calls...")
		} else {
			log.Debug().Int64("affected", archived).Msg("Archiving ended calls accomplished.")
		}
	}

	if database.C != nil {
		deadline := time.Now().Add(-60 * time.Minute)
		count := database.PurgeSoftDeleted(database.C.WithContext(ctx), deadline)
		log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
	}
}
