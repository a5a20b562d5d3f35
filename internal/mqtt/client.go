package mqtt

import (
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

// Client wraps the paho client with the connection policy shared by the
// monitor and the simulator: auto-reconnect, connect retry, resubscription
// of registered handlers after a reconnect.
type Client struct {
	client        mqtt.Client
	subscriptions map[string]mqtt.MessageHandler
}

// NewClient creates a client and connects to the broker. Connecting is the
// one startup step that is allowed to fail the process.
func NewClient(broker, clientID, username, password string) (*Client, error) {
	c := &Client{subscriptions: make(map[string]mqtt.MessageHandler)}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	if username != "" {
		opts.SetUsername(username)
	}
	if password != "" {
		opts.SetPassword(password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.OnConnect = c.connectHandler
	opts.OnConnectionLost = c.connectionLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	c.client = client
	return c, nil
}

// connectHandler is called upon a successful connection, including
// reconnects, so registered subscriptions survive a broker restart.
func (c *Client) connectHandler(client mqtt.Client) {
	log.Println("Connected to MQTT broker")
	for topic, handler := range c.subscriptions {
		if token := client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
			log.Printf("Failed to resubscribe to topic %s: %v", topic, token.Error())
		}
	}
}

// connectionLostHandler is called when the connection is lost.
func (c *Client) connectionLostHandler(client mqtt.Client, err error) {
	log.Printf("Connection to MQTT broker lost: %v", err)
}

// Subscribe registers a handler for a topic and subscribes immediately.
func (c *Client) Subscribe(topic string, handler mqtt.MessageHandler) error {
	c.subscriptions[topic] = handler
	if token := c.client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, token.Error())
	}
	log.Printf("Subscribed to topic: %s", topic)
	return nil
}

// Publish sends a payload to a topic, best-effort with a bounded wait.
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timeout publishing to topic %s", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("error publishing to topic %s: %w", topic, token.Error())
	}
	return nil
}

// IsConnected reports whether the client currently has a broker connection.
func (c *Client) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}

// Close disconnects the MQTT client.
func (c *Client) Close() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
	}
}
