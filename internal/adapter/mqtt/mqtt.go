// Package mqtt publishes snapshots to an MQTT broker for dashboard renderers.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
)

// publishTimeout bounds how long Render waits for the broker to acknowledge.
const publishTimeout = 5 * time.Second

// Topic returns the retained snapshot topic for a view.
func Topic(viewID string) string {
	return fmt.Sprintf("wildfire/explorer/%s/snapshot", viewID)
}

// FormatPayload creates the JSON payload for a snapshot.
func FormatPayload(snap domain.Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// tokenPublisher is the subset of paho.Client used for publishing.
type tokenPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Publisher renders snapshots to MQTT. It implements pipeline.Renderer.
type Publisher struct {
	client tokenPublisher
	close  func()
	topic  string
}

// NewPublisher connects to the broker and returns a publisher for viewID.
func NewPublisher(broker, clientID, viewID string) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &Publisher{
		client: client,
		close:  func() { client.Disconnect(1000) },
		topic:  Topic(viewID),
	}, nil
}

// Render publishes the snapshot retained with QoS 1 so late subscribers get
// the current state immediately.
func (p *Publisher) Render(ctx context.Context, snap domain.Snapshot) error {
	payload, err := FormatPayload(snap)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	token := p.client.Publish(p.topic, 1, true, payload)
	timer := time.NewTimer(publishTimeout)
	defer timer.Stop()

	select {
	case <-token.Done():
	case <-timer.C:
		return fmt.Errorf("publish timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
