package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/unipool/unipool/internal/pkg/logger"
	"github.com/unipool/unipool/internal/pkg/models"
)

// ErrNotConnected is returned when an operation requires a live broker session
var ErrNotConnected = errors.New("mqtt: not connected")

// MessageHandler processes an incoming message on a subscribed topic
type MessageHandler func(topic string, payload []byte)

// Client manages a persistent connection to the MQTT broker. It does not
// auto-retry internally: on network loss it transitions back to disconnected
// and the owning component reconnects before its next operation.
type Client struct {
	mu      sync.Mutex
	cfg     models.MQTTConfig
	cli     pahomqtt.Client
	lastErr error

	// newPahoClient builds the underlying client; swapped out in tests
	newPahoClient func(*pahomqtt.ClientOptions) pahomqtt.Client
}

// NewClient creates an unconnected broker client
func NewClient(cfg models.MQTTConfig) *Client {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10
	}
	return &Client{
		cfg:           cfg,
		newPahoClient: pahomqtt.NewClient,
	}
}

// Connect establishes a session with the broker using role-scoped
// credentials. Calling Connect while a session is live is a no-op: the
// existing connection is reused rather than duplicated.
func (c *Client) Connect(clientID, username, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cli != nil && c.cli.IsConnected() {
		return nil
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(c.cfg.BrokerURL).
		SetClientID(clientID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetCleanSession(true).
		SetConnectTimeout(time.Duration(c.cfg.ConnectTimeout) * time.Second)

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logger.Warn("mqtt connection lost", logger.Err(err))
	})

	cli := c.newPahoClient(opts)

	token := cli.Connect()
	if !token.WaitTimeout(time.Duration(c.cfg.ConnectTimeout) * time.Second) {
		c.lastErr = fmt.Errorf("mqtt: connect to %s timed out", c.cfg.BrokerURL)
		return c.lastErr
	}
	if err := token.Error(); err != nil {
		c.lastErr = fmt.Errorf("mqtt: connect to %s failed: %w", c.cfg.BrokerURL, err)
		return c.lastErr
	}

	c.cli = cli
	c.lastErr = nil
	return nil
}

// IsConnected reports whether a broker session is live
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cli != nil && c.cli.IsConnected()
}

// LastError returns the error from the most recent failed connect
func (c *Client) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Publish sends a payload and waits for the broker acknowledgment
func (c *Client) Publish(topic string, qos byte, payload []byte) error {
	cli, err := c.session()
	if err != nil {
		return err
	}

	token := cli.Publish(topic, qos, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish to %s failed: %w", topic, err)
	}
	return nil
}

// PublishAsync sends a payload without blocking the caller. Delivery failures
// are logged and swallowed; the next message supersedes a lost one.
func (c *Client) PublishAsync(topic string, qos byte, payload []byte) error {
	cli, err := c.session()
	if err != nil {
		return err
	}

	token := cli.Publish(topic, qos, false, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			logger.Warn("mqtt async publish failed",
				logger.String("topic", topic),
				logger.Err(err))
		}
	}()
	return nil
}

// Subscribe registers a handler for a topic
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	cli, err := c.session()
	if err != nil {
		return err
	}

	token := cli.Subscribe(topic, qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: subscribe to %s failed: %w", topic, err)
	}
	return nil
}

// Unsubscribe removes the subscription for a topic
func (c *Client) Unsubscribe(topic string) error {
	cli, err := c.session()
	if err != nil {
		return err
	}

	token := cli.Unsubscribe(topic)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: unsubscribe from %s failed: %w", topic, err)
	}
	return nil
}

// Disconnect closes the broker session
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cli != nil && c.cli.IsConnected() {
		c.cli.Disconnect(250)
	}
	c.cli = nil
}

func (c *Client) session() (pahomqtt.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cli == nil || !c.cli.IsConnected() {
		return nil, ErrNotConnected
	}
	return c.cli, nil
}
