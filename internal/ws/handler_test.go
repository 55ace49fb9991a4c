package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/audily-music-platform/pkg/events"
)

// scriptedConsumer feeds prepared events into the handler once
// signalled, then blocks until the context ends.
type scriptedConsumer struct {
	events []events.Event
	ready  chan struct{}
}

func (c *scriptedConsumer) ConsumeEvents(ctx context.Context, handler func(events.Event) error) error {
	select {
	case <-c.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	for _, event := range c.events {
		if err := handler(event); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestPlayFeedBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)

	payload, _ := json.Marshal(events.SongPlayedPayload{SongID: 7, Title: "Hit", Artists: "Nova", PlayCount: 12})
	consumer := &scriptedConsumer{
		ready: make(chan struct{}),
		events: []events.Event{
			{Type: events.EventTypeUserRegistered, UserID: 1, Timestamp: time.Now()},
			{Type: events.EventTypeSongPlayed, UserID: 1, Timestamp: time.Now(), Payload: payload},
		},
	}

	handler := NewHandler(consumer, zerolog.Nop())

	router := gin.New()
	router.GET("/ws/plays", handler.HandleWebSocket)
	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler.Start(ctx)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/plays"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Release the events only after the server has registered the
	// connection.
	deadline := time.Now().Add(5 * time.Second)
	for {
		handler.mu.RLock()
		n := len(handler.conns)
		handler.mu.RUnlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
	close(consumer.ready)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got events.Event
	if err := json.Unmarshal(message, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Only play events reach the feed, so the registration event must
	// have been filtered out.
	if got.Type != events.EventTypeSongPlayed {
		t.Fatalf("expected song_played, got %s", got.Type)
	}

	var gotPayload events.SongPlayedPayload
	if err := json.Unmarshal(got.Payload, &gotPayload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if gotPayload.SongID != 7 || gotPayload.PlayCount != 12 {
		t.Fatalf("unexpected payload: %+v", gotPayload)
	}
}

// Two clients from the same login must both stay registered and both
// receive the feed; neither connection may displace the other.
func TestPlayFeedMultipleConnections(t *testing.T) {
	gin.SetMode(gin.TestMode)

	payload, _ := json.Marshal(events.SongPlayedPayload{SongID: 3, Title: "Hit", Artists: "Nova", PlayCount: 1})
	consumer := &scriptedConsumer{
		ready: make(chan struct{}),
		events: []events.Event{
			{Type: events.EventTypeSongPlayed, UserID: 1, Timestamp: time.Now(), Payload: payload},
		},
	}

	handler := NewHandler(consumer, zerolog.Nop())

	router := gin.New()
	router.GET("/ws/plays", handler.HandleWebSocket)
	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler.Start(ctx)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/plays"
	conns := make([]*websocket.Conn, 2)
	for i := range conns {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		defer conn.Close()
		conns[i] = conn
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		handler.mu.RLock()
		n := len(handler.conns)
		handler.mu.RUnlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 2 registered connections, have %d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
	close(consumer.ready)

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, message, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read on connection %d: %v", i, err)
		}
		var got events.Event
		if err := json.Unmarshal(message, &got); err != nil {
			t.Fatalf("unmarshal on connection %d: %v", i, err)
		}
		if got.Type != events.EventTypeSongPlayed {
			t.Fatalf("connection %d: expected song_played, got %s", i, got.Type)
		}
	}
}
