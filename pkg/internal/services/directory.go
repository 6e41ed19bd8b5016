package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/database"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/directory"
	"github.com/spf13/viper"
)

var Directory directory.Directory

func SetupDirectory() error {
	switch provider := viper.GetString("calling.provider"); provider {
	case "livekit":
		if database.C == nil || Lk == nil {
			return fmt.Errorf("livekit call directory needs both a database and a livekit client")
		}
		Directory = directory.NewLiveKit(database.C, Lk)
	case "memory", "":
		Directory = directory.NewMemory()
	default:
		return fmt.Errorf("unknown calling provider %q", provider)
	}
	return nil
}
