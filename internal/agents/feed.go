package agents

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Feed keeps a Tracker current from an observer websocket.
type Feed struct {
	URL     string
	Tracker *Tracker
	Log     *log.Logger

	// OnTick, if set, is called after each applied tick.
	OnTick func(TickMsg)
}

func (f *Feed) logf(format string, args ...any) {
	if f.Log != nil {
		f.Log.Printf(format, args...)
	}
}

// Run reads the feed until ctx is done, reconnecting with backoff.
func (f *Feed) Run(ctx context.Context) error {
	backoff := 200 * time.Millisecond
	for {
		err := f.connectAndReadLoop(ctx)
		if ctx.Err() != nil {
			return nil
		}
		f.logf("agents: feed %s: %v (retry in %s)", f.URL, err, backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff < 5*time.Second {
			backoff *= 2
			if backoff > 5*time.Second {
				backoff = 5 * time.Second
			}
		}
	}
}

func (f *Feed) connectAndReadLoop(ctx context.Context) error {
	d := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := d.DialContext(ctx, f.URL, http.Header{})
	if err != nil {
		return err
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	sub := SubscribeMsg{Type: TypeSubscribe, ProtocolVersion: ProtocolVersion}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var base baseMsg
		if err := json.Unmarshal(msg, &base); err != nil {
			continue
		}
		if base.Type != TypeTick {
			continue
		}
		var tick TickMsg
		if err := json.Unmarshal(msg, &tick); err != nil {
			f.logf("agents: bad tick: %v", err)
			continue
		}
		if tick.WorldID == "" {
			return errors.New("agents: tick without world_id")
		}
		if f.Tracker.ApplyTick(tick) && f.OnTick != nil {
			f.OnTick(tick)
		}
	}
}
