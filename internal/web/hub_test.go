package web

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/vovakirdan/bubble-arcade/internal/core"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestHub() (*Hub, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewHub(WithInterval(100*time.Millisecond), WithClock(clock.now)), clock
}

func decodeFrame(t *testing.T, data []byte) Frame {
	t.Helper()
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func drain(ch <-chan []byte) [][]byte {
	var out [][]byte
	for {
		select {
		case d := <-ch:
			out = append(out, d)
		default:
			return out
		}
	}
}

func TestHubThrottlesPerSession(t *testing.T) {
	h, clock := newTestHub()
	ch, unsubscribe := h.Subscribe(16)
	defer unsubscribe()

	h.Broadcast("s1", "ann", "bubbles", core.GameState{Score: 1}, nil)
	clock.advance(50 * time.Millisecond)
	h.Broadcast("s1", "ann", "bubbles", core.GameState{Score: 2}, nil)
	h.Broadcast("s2", "bob", "bubbles", core.GameState{Score: 7}, nil)
	clock.advance(60 * time.Millisecond)
	h.Broadcast("s1", "ann", "bubbles", core.GameState{Score: 3}, nil)

	got := drain(ch)
	if len(got) != 3 {
		t.Fatalf("got %d frames, expected 3", len(got))
	}

	scores := []int{}
	for _, d := range got {
		scores = append(scores, decodeFrame(t, d).Score)
	}
	want := []int{1, 7, 3}
	for i := range want {
		if scores[i] != want[i] {
			t.Errorf("frame %d score = %d, expected %d", i, scores[i], want[i])
		}
	}
}

func TestHubForwardsGameOverImmediately(t *testing.T) {
	h, clock := newTestHub()
	ch, unsubscribe := h.Subscribe(16)
	defer unsubscribe()

	h.Broadcast("s1", "ann", "bubbles", core.GameState{Score: 10}, nil)
	clock.advance(time.Millisecond)
	h.Broadcast("s1", "ann", "bubbles", core.GameState{Score: 30, GameOver: true}, nil)
	clock.advance(time.Millisecond)
	h.Broadcast("s1", "ann", "bubbles", core.GameState{Score: 30, GameOver: true}, nil)

	got := drain(ch)
	if len(got) != 2 {
		t.Fatalf("got %d frames, expected 2", len(got))
	}
	if f := decodeFrame(t, got[1]); !f.GameOver || f.Score != 30 {
		t.Errorf("second frame = %+v, expected game over with 30", f)
	}
}

func TestHubSubscribeReplaysLatest(t *testing.T) {
	h, clock := newTestHub()

	h.Broadcast("b", "bob", "bubbles", core.GameState{Score: 1}, nil)
	h.Broadcast("a", "ann", "bubbles", core.GameState{Score: 2}, map[string]int{"tick": 4})
	clock.advance(time.Second)
	h.Broadcast("a", "ann", "bubbles", core.GameState{Score: 5}, nil)

	ch, unsubscribe := h.Subscribe(8)
	defer unsubscribe()

	got := drain(ch)
	if len(got) != 2 {
		t.Fatalf("got %d replayed frames, expected 2", len(got))
	}
	first := decodeFrame(t, got[0])
	if first.Session != "a" || first.Score != 5 || first.Player != "ann" {
		t.Errorf("first replay = %+v, expected latest frame of session a", first)
	}
	if decodeFrame(t, got[1]).Session != "b" {
		t.Error("replay should be ordered by session id")
	}

	sessions := h.Sessions()
	if len(sessions) != 2 || sessions[0].Session != "a" {
		t.Errorf("Sessions() = %+v", sessions)
	}
}

func TestHubLeave(t *testing.T) {
	h, _ := newTestHub()
	h.Broadcast("s1", "ann", "bubbles", core.GameState{}, nil)

	ch, unsubscribe := h.Subscribe(8)
	defer unsubscribe()
	drain(ch)

	h.Leave("s1")
	h.Leave("s1")
	h.Leave("missing")

	got := drain(ch)
	if len(got) != 1 {
		t.Fatalf("got %d frames, expected 1 leave frame", len(got))
	}
	if f := decodeFrame(t, got[0]); f.Type != FrameLeave || f.Session != "s1" {
		t.Errorf("frame = %+v, expected leave for s1", f)
	}
	if len(h.Sessions()) != 0 {
		t.Error("session should be removed")
	}
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	h, clock := newTestHub()
	ch, unsubscribe := h.Subscribe(1)
	defer unsubscribe()

	for i := range 5 {
		h.Broadcast("s1", "ann", "bubbles", core.GameState{Score: i}, nil)
		clock.advance(time.Second)
	}

	if got := len(drain(ch)); got != 1 {
		t.Errorf("buffered frames = %d, expected 1", got)
	}
	if h.Dropped() != 4 {
		t.Errorf("Dropped() = %d, expected 4", h.Dropped())
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h, _ := newTestHub()
	ch, unsubscribe := h.Subscribe(1)

	if h.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d, expected 1", h.Subscribers())
	}
	unsubscribe()
	unsubscribe()

	if h.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after unsubscribe", h.Subscribers())
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}

	h.Broadcast("s1", "ann", "bubbles", core.GameState{}, nil)
}
