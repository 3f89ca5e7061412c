package middleware

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Notifier announces catalog mutations so player devices can re-poll
// immediately instead of waiting out their polling interval. Resolution
// itself never depends on these messages.
type Notifier interface {
	CatalogUpdated(entity string, id int)
}

const updatesTopic = "player/updates"

type mqttNotifier struct {
	client mqtt.Client
}

// NewMQTTNotifier connects to the broker and returns a Notifier publishing
// on the shared player updates topic.
func NewMQTTNotifier(brokerURL, clientID string) (Notifier, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Error().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &mqttNotifier{client: client}, nil
}

func (n *mqttNotifier) CatalogUpdated(entity string, id int) {
	payload, err := json.Marshal(map[string]any{
		"type":      "catalog_update",
		"entity":    entity,
		"id":        id,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return
	}
	if token := n.client.Publish(updatesTopic, 1, false, payload); token.Wait() && token.Error() != nil {
		log.Error().Err(token.Error()).Str("entity", entity).Int("id", id).Msg("failed to publish catalog update")
	}
}

type noopNotifier struct{}

func (noopNotifier) CatalogUpdated(string, int) {}

// NoopNotifier is used when no MQTT broker is configured.
func NoopNotifier() Notifier {
	return noopNotifier{}
}
