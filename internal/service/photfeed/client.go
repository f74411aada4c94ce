package photfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"TransitScan/internal/domain/models"
	drepo "TransitScan/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a PhotometryStream backed by an instrument gateway
// WebSocket feed.
type Client struct {
	apiKey         string
	websocketURL   string
	targets        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new photometry feed stream.
func New(apiKey, websocketURL string, targets []string, reconnectDelay, pingInterval time.Duration) drepo.PhotometryStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		targets:        targets,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("photfeed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("photfeed: connected")
	return nil
}

// Subscribe subscribes to configured targets.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("photfeed not connected")
	}
	for _, t := range c.targets {
		msg := map[string]string{"type": "subscribe", "target": t}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", t, err)
		}
		log.Printf("photfeed: subscribed %s", t)
	}
	return nil
}

type feedPoint struct {
	ID string  `json:"id"`
	F  float64 `json:"f"`
	E  float64 `json:"e"`
	T  int64   `json:"t"` // ms
}

type feedMessage struct {
	Type string      `json:"type"`
	Data []feedPoint `json:"data"`
}

// Read streams photometry points and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.PhotometryPoint, <-chan error) {
	points := make(chan *models.PhotometryPoint, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(points)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("photfeed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("photfeed read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-photometry frames
					continue
				}
				if m.Type != "photometry" {
					continue
				}
				for _, d := range m.Data {
					sec := d.T / 1000
					pt := &models.PhotometryPoint{Target: d.ID, Timestamp: sec, Flux: d.F, Sigma: d.E}
					select {
					case points <- pt:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return points, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
