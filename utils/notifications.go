package utils

import (
	"encoding/json"
	"fmt"
	"log"

	"dekites-server/models"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

func SendNotification(token string, title string, body string, data map[string]string) error {
	pushToken, err := expo.NewExponentPushToken(token)
	if err != nil {
		return err
	}

	client := expo.NewPushClient(nil)
	response, err := client.Publish(&expo.PushMessage{
		To:       []expo.ExponentPushToken{pushToken},
		Title:    title,
		Body:     body,
		Data:     data,
		Sound:    "default",
		Priority: expo.DefaultPriority,
	})
	if err != nil {
		return err
	}
	if response.ValidateResponse() != nil {
		return fmt.Errorf("push to %s failed: %s", token, response.Message)
	}
	return nil
}

// AppendPushToken adds a token to the stored JSON list, keeping it free of
// duplicates.
func AppendPushToken(stored []byte, token string) ([]byte, error) {
	var tokens []string
	if len(stored) > 0 {
		if err := json.Unmarshal(stored, &tokens); err != nil {
			return nil, err
		}
	}
	for _, t := range tokens {
		if t == token {
			return json.Marshal(tokens)
		}
	}
	tokens = append(tokens, token)
	return json.Marshal(tokens)
}

// PushBookingConfirmed fans the confirmation out to every registered Expo
// token of the user, if they opted in. Push is best effort.
func PushBookingConfirmed(user *models.User, b *models.Booking) {
	if user.AllowsNotifications == nil || !*user.AllowsNotifications {
		return
	}
	if len(user.PushTokens) == 0 {
		return
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		log.Printf("[error] decoding push tokens for user %d: %v", user.ID, err)
		return
	}

	for _, token := range tokens {
		err := SendNotification(
			token,
			"Pesanan Dikonfirmasi",
			fmt.Sprintf("Pemesanan kamar %s telah dikonfirmasi.", b.Room.Name),
			map[string]string{"bookingId": fmt.Sprintf("%d", b.ID)},
		)
		if err != nil {
			log.Printf("[error] push notification: %v", err)
		}
	}
}
