package stream_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/tradestack/market-sim/internal/model"
	"github.com/tradestack/market-sim/internal/stream"
)

func event(id int64) model.NewsEvent {
	return model.NewsEvent{
		ID:             id,
		InstrumentCode: "GOOG",
		Headline:       "headline",
		Sentiment:      model.SentimentPositive,
		ImpactScore:    decimal.NewFromFloat(0.03),
		Timestamp:      time.Now().UTC(),
	}
}

func TestRecentNews_Bounded(t *testing.T) {
	h := stream.NewHub(nil, 3)

	for i := int64(1); i <= 10; i++ {
		h.BroadcastNews(event(i))
	}

	recent := h.RecentNews()
	if len(recent) != 3 {
		t.Fatalf("expected window of 3, got %d", len(recent))
	}
	// Most recent last; the oldest retained is ID 8.
	if recent[0].ID != 8 || recent[2].ID != 10 {
		t.Errorf("unexpected window contents: %+v", recent)
	}
}

func TestRecentNews_CopyIsolated(t *testing.T) {
	h := stream.NewHub(nil, 5)
	h.BroadcastNews(event(1))

	recent := h.RecentNews()
	recent[0].Headline = "mutated"

	if h.RecentNews()[0].Headline != "headline" {
		t.Error("caller mutation leaked into the hub buffer")
	}
}

func TestBroadcastWithoutSubscribers_DoesNotBlock(t *testing.T) {
	h := stream.NewHub(nil, 5)

	// No Run loop draining the channel; sends must drop, not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.BroadcastSnapshot([]model.Instrument{{Code: "GOOG", Price: decimal.NewFromInt(100)}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked with no subscribers")
	}
}

func TestBroadcast_SurvivesClosedSubscriber(t *testing.T) {
	instruments := []model.Instrument{
		{Code: "GOOG", Name: "Alphabet Inc.", Category: "Tech", Price: decimal.NewFromInt(100)},
	}
	h := stream.NewHub(func() []model.Instrument { return instruments }, 5)
	go h.Run()

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	dial := func() *websocket.Conn {
		t.Helper()
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial failed: %v", err)
		}
		// The current snapshot arrives immediately on connect.
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg stream.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("snapshot on connect: %v", err)
		}
		if msg.Type != stream.TypeSnapshot || len(msg.Instruments) != 1 {
			t.Fatalf("unexpected connect frame: %+v", msg)
		}
		return conn
	}

	dead := dial()
	dead.Close()

	survivor := dial()
	defer survivor.Close()

	// Keep broadcasting until the survivor sees a frame. Writes to the
	// closed connection fail along the way and evict it; the hub must
	// keep serving everyone else.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				h.BroadcastSnapshot(instruments)
			}
		}
	}()

	survivor.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg stream.Message
	if err := survivor.ReadJSON(&msg); err != nil {
		t.Fatalf("surviving subscriber stopped receiving: %v", err)
	}
	if msg.Type != stream.TypeSnapshot {
		t.Errorf("expected snapshot frame, got %+v", msg)
	}
}
