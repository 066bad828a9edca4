package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig holds the broker settings for MQTTSharer
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	Username string
	Password string
	Timeout  time.Duration
}

// MQTTSharer publishes shares as JSON so companion devices can open the link
type MQTTSharer struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

// NewMQTTSharer connects to the broker
func NewMQTTSharer(cfg MQTTConfig) (*MQTTSharer, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.Timeout)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	return newMQTTSharer(client, cfg.Topic, cfg.Timeout), nil
}

func newMQTTSharer(client mqtt.Client, topic string, timeout time.Duration) *MQTTSharer {
	return &MQTTSharer{client: client, topic: topic, timeout: timeout}
}

// Share publishes s to "<topic>/<intent>" with QoS 1
func (m *MQTTSharer) Share(ctx context.Context, s Share) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode share: %w", err)
	}

	token := m.client.Publish(m.topic+"/"+s.Intent, 1, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.timeout):
		return fmt.Errorf("mqtt publish to %s timed out", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	return nil
}

// Close disconnects from the broker
func (m *MQTTSharer) Close() {
	m.client.Disconnect(250)
}
