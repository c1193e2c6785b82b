package realtime

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeConn struct {
	messages [][]byte
	failNext bool
	closed   bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	if c.failNext {
		return errors.New("connection gone")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(testLogger())

	a, b := &fakeConn{}, &fakeConn{}
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast(EventTranslationUpdate, map[string]string{"key": "greeting"})

	for name, conn := range map[string]*fakeConn{"a": a, "b": b} {
		if len(conn.messages) != 1 {
			t.Fatalf("client %s received %d messages, want 1", name, len(conn.messages))
		}
		var event Event
		if err := json.Unmarshal(conn.messages[0], &event); err != nil {
			t.Fatalf("client %s payload: %v", name, err)
		}
		if event.Type != EventTranslationUpdate {
			t.Errorf("event type = %q, want %q", event.Type, EventTranslationUpdate)
		}
	}
}

func TestBroadcastDropsFailedClients(t *testing.T) {
	hub := NewHub(testLogger())

	healthy := &fakeConn{}
	broken := &fakeConn{failNext: true}
	hub.Register(healthy)
	hub.Register(broken)

	hub.Broadcast(EventTranslationUpdate, nil)

	if hub.ClientCount() != 1 {
		t.Errorf("client count = %d, want 1 after dropping the failed client", hub.ClientCount())
	}
	if !broken.closed {
		t.Error("failed client should be closed")
	}
	if len(healthy.messages) != 1 {
		t.Errorf("healthy client received %d messages, want 1", len(healthy.messages))
	}

	// The dropped client misses later events permanently.
	hub.Broadcast(EventTranslationUpdate, nil)
	if len(healthy.messages) != 2 {
		t.Errorf("healthy client received %d messages, want 2", len(healthy.messages))
	}
	if len(broken.messages) != 0 {
		t.Error("dropped client must not receive further events")
	}
}

// serialConn flags any overlapping WriteMessage calls, which the websocket
// connection contract forbids.
type serialConn struct {
	active   int32
	overlaps int32
	writes   int32
}

func (c *serialConn) WriteMessage(int, []byte) error {
	if atomic.AddInt32(&c.active, 1) > 1 {
		atomic.AddInt32(&c.overlaps, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.active, -1)
	atomic.AddInt32(&c.writes, 1)
	return nil
}

func (c *serialConn) Close() error { return nil }

func TestConcurrentWritesAreSerialized(t *testing.T) {
	hub := NewHub(testLogger())

	conn := &serialConn{}
	hub.Register(conn)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				hub.Broadcast(EventTranslationUpdate, nil)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 5; j++ {
			if err := hub.Send(conn, Event{Type: "subscribed"}); err != nil {
				t.Errorf("Send: %v", err)
			}
		}
	}()
	wg.Wait()

	if n := atomic.LoadInt32(&conn.overlaps); n != 0 {
		t.Errorf("detected %d overlapping writes, want none", n)
	}
	if n := atomic.LoadInt32(&conn.writes); n != 25 {
		t.Errorf("writes = %d, want 25", n)
	}
}

func TestSendToUnregisteredClientIsDropped(t *testing.T) {
	hub := NewHub(testLogger())

	conn := &fakeConn{}
	if err := hub.Send(conn, Event{Type: "subscribed"}); err != nil {
		t.Errorf("Send to unregistered client: %v", err)
	}
	if len(conn.messages) != 0 {
		t.Error("unregistered client must not receive events")
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub(testLogger())

	conn := &fakeConn{}
	hub.Register(conn)
	hub.Unregister(conn)
	hub.Unregister(conn)

	if hub.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", hub.ClientCount())
	}
}
