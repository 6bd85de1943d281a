package main

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/bizmarket/notify/pkg/broadcast"
	"github.com/bizmarket/notify/pkg/config"
	"github.com/bizmarket/notify/pkg/dispatch"
	"github.com/bizmarket/notify/pkg/inbox"
	"github.com/bizmarket/notify/pkg/notification"
	"github.com/bizmarket/notify/pkg/transport"
)

// buildServices constructs one channel service per enabled channel.
// Credentials are loaded lazily so a deployment that only enables email and
// in-app never needs Twilio or FCM configuration.
func buildServices(cfg appConfig, db *mongodrv.Database, store inbox.Storage, hub broadcast.Broadcaster[inbox.Notification]) ([]dispatch.ChannelService, error) {
	services := make([]dispatch.ChannelService, 0, len(cfg.Channels))

	for _, name := range cfg.Channels {
		ch, err := notification.ParseChannel(name)
		if err != nil {
			return nil, fmt.Errorf("NOTIFY_CHANNELS: %w", err)
		}

		switch ch {
		case notification.ChannelEmail:
			var emailCfg transport.EmailConfig
			if err := config.Load(&emailCfg); err != nil {
				return nil, err
			}
			sender, err := transport.NewEmailSender(emailCfg)
			if err != nil {
				return nil, err
			}
			services = append(services, dispatch.NewEmailService(sender))

		case notification.ChannelSMS:
			twilioCfg, err := loadTwilioConfig()
			if err != nil {
				return nil, err
			}
			sender, err := transport.NewSMSSender(twilioCfg)
			if err != nil {
				return nil, err
			}
			services = append(services, dispatch.NewSMSService(sender))

		case notification.ChannelWhatsApp:
			twilioCfg, err := loadTwilioConfig()
			if err != nil {
				return nil, err
			}
			sender, err := transport.NewWhatsAppSender(twilioCfg)
			if err != nil {
				return nil, err
			}
			services = append(services, dispatch.NewWhatsAppService(sender))

		case notification.ChannelPush:
			var pushCfg transport.PushConfig
			if err := config.Load(&pushCfg); err != nil {
				return nil, err
			}
			if db == nil {
				return nil, fmt.Errorf("push channel requires MongoDB for device tokens")
			}
			sender, err := transport.NewPushSender(pushCfg, newMongoTokenResolver(db))
			if err != nil {
				return nil, err
			}
			services = append(services, dispatch.NewPushService(sender))

		case notification.ChannelInApp:
			sender, err := transport.NewInAppSender(store, hub)
			if err != nil {
				return nil, err
			}
			services = append(services, dispatch.NewInAppService(sender))
		}
	}

	return services, nil
}

func loadTwilioConfig() (transport.TwilioConfig, error) {
	var cfg transport.TwilioConfig
	err := config.Load(&cfg)
	return cfg, err
}

// mongoTokenResolver looks up a user's registered FCM device tokens.
// Devices register through the mobile apps, outside this service; we only
// read the collection.
type mongoTokenResolver struct {
	coll *mongodrv.Collection
}

func newMongoTokenResolver(db *mongodrv.Database) *mongoTokenResolver {
	return &mongoTokenResolver{coll: db.Collection("device_tokens")}
}

func (r *mongoTokenResolver) DeviceTokens(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to query device tokens: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Token string `bson:"token"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode device tokens: %w", err)
	}

	tokens := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Token != "" {
			tokens = append(tokens, doc.Token)
		}
	}
	return tokens, nil
}
