package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// OddsUpdate is one price movement pushed by the odds stream.
type OddsUpdate struct {
	FixtureID uuid.UUID
	Market    string
	Odds      float64
}

// oddsStreamMessage is the wire format of a stream event
type oddsStreamMessage struct {
	FixtureID string `json:"fixture_id"`
	Market    string `json:"market"`
	Odds      string `json:"odds"`
}

// OddsStream consumes live price movements over a websocket connection.
// Updates are delivered on the Updates channel until Close is called or the
// connection drops.
type OddsStream struct {
	url     string
	apiKey  string
	logger  *log.Logger
	conn    *websocket.Conn
	updates chan OddsUpdate
	done    chan struct{}
	once    sync.Once
}

// NewOddsStream creates a new odds stream consumer
func NewOddsStream(url, apiKey string, logger *log.Logger) *OddsStream {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &OddsStream{
		url:     url,
		apiKey:  apiKey,
		logger:  logger,
		updates: make(chan OddsUpdate, 64),
		done:    make(chan struct{}),
	}
}

// Connect dials the stream endpoint and starts the read loop
func (s *OddsStream) Connect(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, header)
	if err != nil {
		return NewDataSourceError("odds_stream", ErrCodeNetworkError, "failed to connect to odds stream", err)
	}
	s.conn = conn

	go s.readLoop()
	return nil
}

// Updates returns the channel of price movements. The channel is closed when
// the stream ends.
func (s *OddsStream) Updates() <-chan OddsUpdate {
	return s.updates
}

// Close shuts the stream down
func (s *OddsStream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		if s.conn != nil {
			err = s.conn.Close()
		}
	})
	return err
}

func (s *OddsStream) readLoop() {
	defer close(s.updates)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		var msg oddsStreamMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.done:
			default:
				s.logger.Printf("Odds stream read failed: %v", err)
			}
			return
		}

		update, err := convertStreamMessage(&msg)
		if err != nil {
			s.logger.Printf("Dropping malformed stream message: %v", err)
			continue
		}

		select {
		case s.updates <- update:
		case <-s.done:
			return
		default:
			// Consumer fell behind: drop the oldest update in favor of the new one.
			select {
			case <-s.updates:
			default:
			}
			s.updates <- update
		}
	}
}

func convertStreamMessage(msg *oddsStreamMessage) (OddsUpdate, error) {
	fixtureID, err := uuid.Parse(msg.FixtureID)
	if err != nil {
		return OddsUpdate{}, fmt.Errorf("invalid fixture ID %q: %w", msg.FixtureID, err)
	}

	price, err := decimal.NewFromString(msg.Odds)
	if err != nil {
		return OddsUpdate{}, fmt.Errorf("invalid odds %q: %w", msg.Odds, err)
	}

	return OddsUpdate{
		FixtureID: fixtureID,
		Market:    msg.Market,
		Odds:      price.InexactFloat64(),
	}, nil
}

// unmarshalStreamMessage parses a raw stream frame, used by tests and the
// read loop alike.
func unmarshalStreamMessage(data []byte) (OddsUpdate, error) {
	var msg oddsStreamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return OddsUpdate{}, fmt.Errorf("invalid stream frame: %w", err)
	}
	return convertStreamMessage(&msg)
}
