package services

import (
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/livekit/protocol/auth"
	lksdk "github.com/livekit/server-sdk-go"
	"github.com/spf13/viper"
)

var Lk *lksdk.RoomServiceClient

// CheckLiveKitCredentials reports missing video token keys. Tokens are signed
// with them whichever call directory is in use.
func CheckLiveKitCredentials() error {
	key, secret := viper.GetString("calling.api_key"), viper.GetString("calling.api_secret")
	if len(key) == 0 || len(secret) == 0 {
		return fmt.Errorf("livekit credentials are missing, set calling.api_key and calling.api_secret")
	}
	return nil
}

func SetupLiveKit() error {
	if err := CheckLiveKitCredentials(); err != nil {
		return err
	}

	key, secret := viper.GetString("calling.api_key"), viper.GetString("calling.api_secret")
	host := "https://" + viper.GetString("calling.endpoint")
	Lk = lksdk.NewRoomServiceClient(host, key, secret)
	return nil
}

// EncodeCallToken signs a video token for user. Without a call the token lets
// the user join any room; with a call it is scoped to that room and the
// creator gets room admin.
func EncodeCallToken(user models.Account, call *models.Call) (string, error) {
	grant := &auth.VideoGrant{RoomJoin: true}
	if call != nil {
		grant.Room = call.Reference
		grant.RoomAdmin = call.CreatedBy == user.ID
	}

	metadata, _ := jsoniter.Marshal(user)

	duration := time.Second * time.Duration(viper.GetInt("calling.token_duration"))
	tk := auth.NewAccessToken(viper.GetString("calling.api_key"), viper.GetString("calling.api_secret"))
	tk.AddGrant(grant).
		SetIdentity(user.ID).
		SetName(user.DisplayName()).
		SetMetadata(string(metadata)).
		SetValidFor(duration)

	return tk.ToJWT()
}
