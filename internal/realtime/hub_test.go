package realtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mbd888/payguard/internal/events"
	"github.com/mbd888/payguard/internal/scoring"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

func riskEvent(level scoring.Level, score float64, channel string) *Event {
	return &Event{
		Type:      EventRiskEvent,
		Timestamp: time.Now(),
		Data: &events.Event{
			ID:         "evt_test",
			Channel:    channel,
			FinalScore: score,
			RiskLevel:  level,
		},
	}
}

// ---------------------------------------------------------------------------
// shouldSend tests
// ---------------------------------------------------------------------------

func TestShouldSend_AllEvents(t *testing.T) {
	h := testHub()
	client := &Client{sub: Subscription{AllEvents: true}}

	if !h.shouldSend(client, riskEvent(scoring.LevelLow, 5, "email")) {
		t.Error("AllEvents client should receive all events")
	}
}

func TestShouldSend_LevelFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		Levels: []scoring.Level{scoring.LevelHigh, scoring.LevelMedium},
	}}

	if !h.shouldSend(client, riskEvent(scoring.LevelHigh, 85, "email")) {
		t.Error("Should receive HIGH events")
	}
	if !h.shouldSend(client, riskEvent(scoring.LevelMedium, 50, "email")) {
		t.Error("Should receive MEDIUM events")
	}
	if h.shouldSend(client, riskEvent(scoring.LevelLow, 10, "email")) {
		t.Error("Should NOT receive LOW events")
	}
}

func TestShouldSend_ChannelFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		Channels: []string{"email", "chat"},
	}}

	if !h.shouldSend(client, riskEvent(scoring.LevelLow, 10, "email")) {
		t.Error("Should match email channel")
	}
	if !h.shouldSend(client, riskEvent(scoring.LevelLow, 10, "chat")) {
		t.Error("Should match chat channel")
	}
	if h.shouldSend(client, riskEvent(scoring.LevelLow, 10, "voice")) {
		t.Error("Should NOT match unsubscribed channels")
	}
}

func TestShouldSend_MinScoreFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		MinScore: 40,
	}}

	if !h.shouldSend(client, riskEvent(scoring.LevelMedium, 55, "email")) {
		t.Error("Should receive event above the score floor")
	}
	if !h.shouldSend(client, riskEvent(scoring.LevelMedium, 40, "email")) {
		t.Error("Floor is inclusive")
	}
	if h.shouldSend(client, riskEvent(scoring.LevelLow, 15, "email")) {
		t.Error("Should NOT receive event below the score floor")
	}
}

func TestShouldSend_EmptySubscription(t *testing.T) {
	h := testHub()

	// No filters, not AllEvents
	client := &Client{sub: Subscription{}}

	if !h.shouldSend(client, riskEvent(scoring.LevelLow, 5, "email")) {
		t.Error("Empty subscription (no filters) should receive events")
	}
}

func TestShouldSend_NilData(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		Levels: []scoring.Level{scoring.LevelHigh},
	}}

	// Event without a payload can't match any filter
	event := &Event{Type: EventRiskEvent, Timestamp: time.Now()}
	if h.shouldSend(client, event) {
		t.Error("Filtered client should not receive payload-less events")
	}
}

// ---------------------------------------------------------------------------
// Hub lifecycle tests
// ---------------------------------------------------------------------------

func TestHub_Stats_Initial(t *testing.T) {
	h := testHub()

	stats := h.Stats()
	if stats["connectedClients"].(int) != 0 {
		t.Errorf("Expected 0 connected clients, got %v", stats["connectedClients"])
	}
	if stats["totalEvents"].(int64) != 0 {
		t.Errorf("Expected 0 total events, got %v", stats["totalEvents"])
	}
}

func TestHub_BroadcastAndStats(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	// Broadcast an event
	h.Broadcast(riskEvent(scoring.LevelLow, 5, "email"))
	time.Sleep(50 * time.Millisecond)

	stats := h.Stats()
	if stats["totalEvents"].(int64) != 1 {
		t.Errorf("Expected 1 total event, got %v", stats["totalEvents"])
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{AllEvents: true},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	stats := h.Stats()
	if stats["connectedClients"].(int) != 1 {
		t.Errorf("Expected 1 connected client, got %v", stats["connectedClients"])
	}
	if stats["peakClients"].(int64) != 1 {
		t.Errorf("Expected peak 1, got %v", stats["peakClients"])
	}

	h.unregister <- client
	time.Sleep(50 * time.Millisecond)

	stats = h.Stats()
	if stats["connectedClients"].(int) != 0 {
		t.Errorf("Expected 0 connected clients after unregister, got %v", stats["connectedClients"])
	}
	// Peak should still be 1
	if stats["peakClients"].(int64) != 1 {
		t.Errorf("Expected peak still 1, got %v", stats["peakClients"])
	}
}

func TestHub_BroadcastToClient(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{AllEvents: true},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	h.BroadcastEvent(&events.Event{
		ID:         "evt_ws",
		FinalScore: 82,
		RiskLevel:  scoring.LevelHigh,
	})

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("Expected non-empty message")
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for broadcast")
	}
}

func TestHub_ContextCancellation(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
		// Hub stopped
	case <-time.After(2 * time.Second):
		t.Error("Hub did not stop after context cancellation")
	}
}

func TestHub_FilteredBroadcast(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	// Client only wants HIGH events
	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{Levels: []scoring.Level{scoring.LevelHigh}},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	// Send a LOW event (should be filtered out)
	h.Broadcast(riskEvent(scoring.LevelLow, 5, "email"))
	time.Sleep(100 * time.Millisecond)

	select {
	case <-client.send:
		t.Error("Client should NOT receive LOW event")
	default:
		// Good - filtered out
	}

	// Send a HIGH event (should be received)
	h.Broadcast(riskEvent(scoring.LevelHigh, 90, "email"))

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("Expected non-empty message")
		}
	case <-time.After(time.Second):
		t.Error("Client should receive HIGH event")
	}
}
