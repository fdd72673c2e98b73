// Package web serves the arcade leaderboard over HTTP and streams live game
// snapshots to websocket spectators.
package web

import (
	"encoding/json"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubble-arcade/internal/core"
)

// Frame types sent to spectators.
const (
	FrameSnapshot = "snapshot"
	FrameLeave    = "leave"
)

// DefaultInterval is the minimum spacing between two snapshots of one session.
const DefaultInterval = 100 * time.Millisecond

// Frame is one message on the live feed.
type Frame struct {
	Type     string    `json:"type"`
	Session  string    `json:"session"`
	Player   string    `json:"player,omitempty"`
	Game     string    `json:"game,omitempty"`
	Score    int       `json:"score"`
	GameOver bool      `json:"game_over"`
	Paused   bool      `json:"paused"`
	State    any       `json:"state,omitempty"`
	Time     time.Time `json:"time"`
}

type liveSession struct {
	frame    Frame
	data     []byte
	sentAt   time.Time
	gameOver bool
}

// Hub fans out session snapshots to subscribers. Publishing never blocks:
// a subscriber whose buffer is full misses frames.
type Hub struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	logger   *log.Logger
	sessions map[string]*liveSession
	subs     map[int]chan []byte
	nextSub  int
	dropped  int
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithInterval sets the per-session throttle interval.
func WithInterval(d time.Duration) HubOption {
	return func(h *Hub) { h.interval = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) HubOption {
	return func(h *Hub) { h.now = now }
}

// WithHubLogger sets the hub logger.
func WithHubLogger(l *log.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		interval: DefaultInterval,
		now:      time.Now,
		logger:   log.New(io.Discard),
		sessions: make(map[string]*liveSession),
		subs:     make(map[int]chan []byte),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Broadcast records the latest state of a session and forwards it to
// subscribers unless the session published less than one interval ago.
// The transition into game over is always forwarded.
func (h *Hub) Broadcast(session, player, game string, st core.GameState, snapshot any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	ls, ok := h.sessions[session]
	if ok && now.Sub(ls.sentAt) < h.interval && st.GameOver == ls.gameOver {
		return
	}

	frame := Frame{
		Type:     FrameSnapshot,
		Session:  session,
		Player:   player,
		Game:     game,
		Score:    st.Score,
		GameOver: st.GameOver,
		Paused:   st.Paused,
		State:    snapshot,
		Time:     now,
	}
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Warn("encode snapshot", "session", session, "err", err)
		return
	}

	if !ok {
		ls = &liveSession{}
		h.sessions[session] = ls
		h.logger.Debug("session joined", "session", session, "player", player)
	}
	ls.frame = frame
	ls.data = data
	ls.sentAt = now
	ls.gameOver = st.GameOver

	h.fanOut(data)
}

// Leave removes a session and tells subscribers it ended.
func (h *Hub) Leave(session string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[session]; !ok {
		return
	}
	delete(h.sessions, session)

	data, err := json.Marshal(Frame{Type: FrameLeave, Session: session, Time: h.now()})
	if err != nil {
		return
	}
	h.fanOut(data)
	h.logger.Debug("session left", "session", session)
}

// fanOut must be called with h.mu held.
func (h *Hub) fanOut(data []byte) {
	for _, ch := range h.subs {
		select {
		case ch <- data:
		default:
			h.dropped++
		}
	}
}

// Subscribe registers a subscriber with the given buffer size. The channel
// first receives the latest frame of every live session. The returned
// function unsubscribes and closes the channel.
func (h *Hub) Subscribe(buffer int) (<-chan []byte, func()) {
	if buffer < 1 {
		buffer = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextSub
	h.nextSub++
	ch := make(chan []byte, buffer)
	h.subs[id] = ch

	for _, f := range h.sortedLocked() {
		select {
		case ch <- h.sessions[f.Session].data:
		default:
			h.dropped++
		}
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Sessions returns the latest frame of every live session, ordered by id.
func (h *Hub) Sessions() []Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sortedLocked()
}

func (h *Hub) sortedLocked() []Frame {
	frames := make([]Frame, 0, len(h.sessions))
	for _, ls := range h.sessions {
		frames = append(frames, ls.frame)
	}
	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Session < frames[j].Session
	})
	return frames
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped returns how many frames were discarded because a subscriber was slow.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
