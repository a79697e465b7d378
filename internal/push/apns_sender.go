package push

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// TokenSource resolves internal recipient ids to APNs device tokens.
// Recipients without a registered token are simply absent from the result.
type TokenSource interface {
	DeviceTokens(ctx context.Context, recipientIDs []string) (map[string]string, error)
}

// APNSSenderConfig configures the Apple push transport.
type APNSSenderConfig struct {
	AuthKeyPath string
	KeyID       string
	TeamID      string
	Topic       string // app bundle id
	Production  bool
}

// apnsSender delivers pushes directly through APNs, one notification per
// resolved device token.
type apnsSender struct {
	client *apns2.Client
	topic  string
	tokens TokenSource
}

// NewAPNSSender creates a Sender backed by APNs token-based auth.
func NewAPNSSender(cfg APNSSenderConfig, tokens TokenSource) (Sender, error) {
	authKey, err := token.AuthKeyFromFile(cfg.AuthKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load APNs auth key: %w", err)
	}
	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}
	return &apnsSender{
		client: client,
		topic:  cfg.Topic,
		tokens: tokens,
	}, nil
}

// Push fans the notification out to every recipient with a known device
// token. Individual delivery failures are logged, not returned: the last
// error is kept only so callers can log that something went wrong.
func (s *apnsSender) Push(ctx context.Context, recipientIDs []string, title, message string) error {
	if len(recipientIDs) == 0 {
		return nil
	}
	deviceTokens, err := s.tokens.DeviceTokens(ctx, recipientIDs)
	if err != nil {
		return fmt.Errorf("resolve device tokens: %w", err)
	}

	var lastErr error
	for recipientID, deviceToken := range deviceTokens {
		notification := &apns2.Notification{
			DeviceToken: deviceToken,
			Topic:       s.topic,
			Payload:     payload.NewPayload().AlertTitle(title).AlertBody(message),
		}
		res, err := s.client.PushWithContext(ctx, notification)
		if err != nil {
			lastErr = err
			log.Error().Err(err).Str("recipient", recipientID).Msg("apns push failed")
			continue
		}
		if !res.Sent() {
			lastErr = fmt.Errorf("apns rejected push: %s", res.Reason)
			log.Warn().
				Str("recipient", recipientID).
				Str("reason", res.Reason).
				Msg("apns push rejected")
		}
	}
	return lastErr
}
