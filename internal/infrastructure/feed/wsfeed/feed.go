package wsfeed

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ElMonstro/Lean/internal/application/port"
	"github.com/ElMonstro/Lean/internal/domain/model"
)

const (
	msgInsights          = "insights"
	msgSecuritiesChanged = "securities_changed"
)

const (
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 10 * time.Second
	pingEvery      = 25 * time.Second
	readTimeout    = 60 * time.Second
)

// Feed reads insight batches and universe changes from a websocket endpoint
type Feed struct {
	name    string
	wsURL   string
	streams []string
	backoff time.Duration // first reconnect delay
}

func New(name, wsURL string, streams []string) *Feed {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "ws"
	}
	return &Feed{
		name:    name,
		wsURL:   strings.TrimSpace(wsURL),
		streams: streams,
		backoff: initialBackoff,
	}
}

func (f *Feed) Name() string { return f.name }

type subReq struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

type envelope struct {
	Type     string           `json:"type"`
	Ts       int64            `json:"ts"`
	Insights []model.Insight  `json:"insights,omitempty"`
	Added    []model.Security `json:"added,omitempty"`
	Removed  []model.Security `json:"removed,omitempty"`

	Success *bool  `json:"success,omitempty"`
	RetMsg  string `json:"ret_msg,omitempty"`
}

func (f *Feed) Subscribe(ctx context.Context) (<-chan port.Event, error) {
	if f.wsURL == "" {
		return nil, errors.New("feed ws_url empty")
	}

	out := make(chan port.Event, 1024)
	go f.run(ctx, out)
	return out, nil
}

func (f *Feed) run(ctx context.Context, out chan<- port.Event) {
	defer close(out)

	backoff := f.backoff

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		log.Warn().Str("feed", f.name).Str("url", f.wsURL).Msg("ws connecting")
		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		conn, _, err := websocket.DefaultDialer.DialContext(cctx, f.wsURL, nil)
		cancel()
		if err != nil {
			log.Error().Str("feed", f.name).Err(err).Msg("ws dial failed")
			if !sleepCtx(ctx, backoff) {
				return
			}
			backoff = minDur(backoff*2, maxBackoff)
			continue
		}

		if len(f.streams) > 0 {
			if err := conn.WriteJSON(subReq{Op: "subscribe", Args: f.streams}); err != nil {
				_ = conn.Close()
				log.Error().Str("feed", f.name).Err(err).Msg("subscribe failed")
				if !sleepCtx(ctx, backoff) {
					return
				}
				backoff = minDur(backoff*2, maxBackoff)
				continue
			}
		}

		backoff = f.backoff
		log.Info().Str("feed", f.name).Strs("streams", f.streams).Msg("ws connected")

		err = readLoop(ctx, conn, func(b []byte) {
			ev, ok := f.decode(b)
			if !ok {
				return
			}
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		})

		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}

		log.Warn().Str("feed", f.name).Err(err).Msg("ws disconnected, reconnecting")
		if !sleepCtx(ctx, backoff) {
			return
		}
		backoff = minDur(backoff*2, maxBackoff)
	}
}

// decode turns one frame into an event; acks and malformed frames yield ok=false.
func (f *Feed) decode(b []byte) (port.Event, bool) {
	var msg envelope
	if err := json.Unmarshal(b, &msg); err != nil {
		log.Error().Str("feed", f.name).Err(err).Msg("json unmarshal failed")
		return port.Event{}, false
	}

	// ack
	if msg.Success != nil {
		if !*msg.Success {
			log.Error().Str("feed", f.name).Str("ret_msg", msg.RetMsg).Msg("subscribe not success")
		}
		return port.Event{}, false
	}

	ts := msg.Ts
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}

	switch msg.Type {
	case msgInsights:
		return port.Event{Kind: port.EventInsights, Source: f.name, Ts: ts, Insights: msg.Insights}, true
	case msgSecuritiesChanged:
		return port.Event{
			Kind:    port.EventSecuritiesChanged,
			Source:  f.name,
			Ts:      ts,
			Changes: model.SecurityChanges{Added: msg.Added, Removed: msg.Removed},
		}, true
	default:
		log.Warn().Str("feed", f.name).Str("type", msg.Type).Msg("unknown message type")
		return port.Event{}, false
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, onMsg func([]byte)) error {
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	pingTicker := time.NewTicker(pingEvery)
	defer pingTicker.Stop()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for {
			_, b, err := conn.ReadMessage()
			if err != nil {
				errCh <- err
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			onMsg(b)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			// unblock the reader and wait for it so onMsg never runs after return
			_ = conn.Close()
			<-errCh
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-pingTicker.C:
			_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
