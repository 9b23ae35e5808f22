// Package spectate implements the battle-log spectator server: it
// replaces the teacher's grid-world value-function websocket viewer
// with a live feed of protocol.Event batches, keeping the teacher's
// client[T]/websock ping-pong/read/publish machinery nearly verbatim
// (it is transport code independent of payload type) but genericized
// here specifically over a batch of protocol.Event instead of the
// teacher's []EleUpdate, and routed through gorilla/mux instead of bare
// http.HandleFunc so replay-by-id can be a path parameter.
package spectate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait      = 1 * time.Second
	pubResolution  = time.Millisecond * 100
	pingResolution = time.Millisecond * 200
	pongWait       = pingResolution * 4
	readDeadline   = time.Second
	writeDeadline  = time.Second
	closeGrace     = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client publishes a read-only stream of T (here, event batches) to one
// websocket connection. Teacher's fastview.client[T], unchanged in
// shape.
type client[T any] struct {
	updates <-chan T
	ws      *websock
	rootCtx context.Context
}

// newClient upgrades r to a websocket and wraps it as a client
// publishing updates.
func newClient[T any](updates <-chan T, w http.ResponseWriter, r *http.Request) (*client[T], error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, err
	}
	return &client[T]{updates: updates, ws: newWebSocket(ws), rootCtx: r.Context()}, nil
}

// Sync runs the ping-pong liveness check, the (currently sink-only)
// read pump, and the update publisher concurrently until the client
// disconnects or the request context is cancelled (teacher's
// client.Sync, via errgroup.WithContext exactly as the teacher uses
// it).
func (cli *client[T]) Sync() error {
	group, groupCtx := errgroup.WithContext(cli.rootCtx)
	group.Go(func() error { return cli.readMessages(groupCtx) })
	group.Go(func() error { return cli.pingPong(groupCtx) })
	group.Go(func() error { return cli.publish(groupCtx) })
	return group.Wait()
}

// ErrPongDeadlineExceeded signals a spectator connection that stopped
// answering pings.
var ErrPongDeadlineExceeded = errors.New("spectate: client disconnect, pong deadline exceeded")

func (cli *client[T]) pingPong(ctx context.Context) error {
	pong := make(chan struct{})
	defer close(pong)
	cli.ws.Conn().SetPongHandler(func(_ string) error {
		pong <- struct{}{}
		return nil
	})

	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			if err := cli.ping(ctx); err != nil {
				return err
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (cli *client[T]) ping(ctx context.Context) error {
	return cli.ws.Write(ctx, func(ws *websocket.Conn) (err error) {
		if err = ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			if isError(err) {
				err = fmt.Errorf("spectate: ping failed: %w", err)
			}
		}
		return
	})
}

// readMessages sinks client-originated messages; a spectator
// connection is currently publish-only, but the read pump must run for
// the websocket library's own ping/pong control-frame handling to fire.
func (cli *client[T]) readMessages(ctx context.Context) error {
	for {
		err := cli.ws.Read(ctx, func(ws *websocket.Conn) (readErr error) {
			_, _, readErr = ws.ReadMessage()
			return
		})
		if err != nil {
			return err
		}
	}
}

func (cli *client[T]) publish(ctx context.Context) error {
	lastSync := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-cli.updates:
			if !ok {
				return nil
			}
			if time.Since(lastSync) < pubResolution {
				break
			}
			lastSync = time.Now()
			err := cli.ws.Write(ctx, func(ws *websocket.Conn) (writeErr error) {
				if writeErr = ws.SetWriteDeadline(time.Now().Add(writeWait)); writeErr != nil {
					return fmt.Errorf("spectate: set deadline: %w", writeErr)
				}
				if writeErr = ws.WriteJSON(update); writeErr != nil {
					if isError(writeErr) {
						writeErr = fmt.Errorf("spectate: publish failed: %w", writeErr)
					}
				}
				return
			})
			if err != nil {
				return err
			}
		}
	}
}

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

// websock serializes reads and writes to the underlying connection,
// whose requirement is at most one concurrent reader and one concurrent
// writer (teacher's fastview.websock, unchanged).
type websock struct {
	readSem  chan struct{}
	writeSem chan struct{}
	ws       *websocket.Conn
}

func newWebSocket(ws *websocket.Conn) *websock {
	return &websock{readSem: make(chan struct{}, 1), writeSem: make(chan struct{}, 1), ws: ws}
}

func (sock *websock) Conn() *websocket.Conn { return sock.ws }

func (sock *websock) Close() {
	sock.readSem <- struct{}{}
	sock.writeSem <- struct{}{}
	_ = sock.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = sock.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGrace)
	sock.ws.Close()
}

// ErrSockCongestion indicates too many waiters on the socket for a
// given operation.
var ErrSockCongestion = errors.New("spectate: socket op failed due to congestion")

func (sock *websock) Read(ctx context.Context, readFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.readSem <- struct{}{}:
		defer func() { <-sock.readSem }()
		return readFn(sock.ws)
	case <-time.After(readDeadline):
		return ErrSockCongestion
	}
}

func (sock *websock) Write(ctx context.Context, writeFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.writeSem <- struct{}{}:
		defer func() { <-sock.writeSem }()
		return writeFn(sock.ws)
	case <-time.After(writeDeadline):
		return ErrSockCongestion
	}
}
