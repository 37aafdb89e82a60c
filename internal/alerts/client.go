package alerts

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/OldStager01/sentinel-console/internal/logger"
)

var ErrNotConnected = errors.New("mqtt client not connected")

// Sink is anything that can deliver a payload to a topic.
type Sink interface {
	Publish(topic string, qos byte, payload []byte) error
}

type ClientConfig struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	ConnectTimeout time.Duration
	PublishTimeout time.Duration
}

// Client owns the broker connection.
type Client struct {
	client         mqtt.Client
	publishTimeout time.Duration
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.WithField("broker", cfg.Broker).Info("MQTT connection established")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.WithField("broker", cfg.Broker).Warnf("MQTT connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.ConnectTimeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	return &Client{client: client, publishTimeout: cfg.PublishTimeout}, nil
}

func (c *Client) Publish(topic string, qos byte, payload []byte) error {
	if !c.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(c.publishTimeout) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	return token.Error()
}

func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

func (c *Client) Close() {
	c.client.Disconnect(250)
	logger.Info("MQTT client disconnected")
}
