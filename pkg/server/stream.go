package server

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/weft-ui/weft/pkg/protocol"
)

// feed is one live WebSocket consumer of the engine's patch stream.
type feed struct {
	conn    *websocket.Conn
	server  *Server
	logger  *slog.Logger
	writeMu sync.Mutex
	lastAck atomic.Uint64

	// done stops the write pump when the read loop exits.
	done chan struct{}
}

// handleFeed upgrades the connection and runs the handshake, replay and
// live phases.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	f := &feed{
		conn:   conn,
		server: s,
		logger: s.logger.With("remote", r.RemoteAddr),
		done:   make(chan struct{}),
	}
	f.run(r)
}

func (f *feed) run(r *http.Request) {
	defer f.conn.Close()

	hello, ok := f.handshake()
	if !ok {
		return
	}

	// Subscribe before syncing so no pass can fall between the two.
	// Passes that race the sync show up in both the replay and the live
	// channel; the write pump drops the duplicates by sequence.
	id, frames := f.server.engine.Subscribe()
	defer f.server.engine.Unsubscribe(id)

	through, ok := f.sync(r, hello.LastSeq)
	if !ok {
		return
	}

	go f.writePump(frames, through)
	defer close(f.done)

	f.readLoop()
}

// handshake reads the consumer's Hello. Anything else is a protocol
// violation.
func (f *feed) handshake() (*protocol.Hello, bool) {
	f.conn.SetReadDeadline(time.Now().Add(DefaultHandshakeTimeout))

	_, msg, err := f.conn.ReadMessage()
	if err != nil {
		f.logger.Debug("handshake read failed", "error", err)
		return nil, false
	}

	frame, err := protocol.DecodeFrame(msg)
	if err != nil || frame.Type != protocol.FrameHello {
		f.sendError(protocol.ErrInvalidFrame, "expected hello", true)
		return nil, false
	}
	hello, err := protocol.DecodeHello(frame.Payload)
	if err != nil {
		f.sendError(protocol.ErrInvalidFrame, "malformed hello", true)
		return nil, false
	}
	if hello.Version != protocol.Version {
		f.sendError(protocol.ErrBadVersion, "unsupported protocol version", true)
		return nil, false
	}
	return hello, true
}

// sync brings the consumer current: replays the frames it missed when
// they are still reproducible, otherwise sends a full snapshot. Returns
// the sequence the consumer is now at.
func (f *feed) sync(r *http.Request, lastSeq uint64) (uint64, bool) {
	missed, ok := f.server.engine.Frames(r.Context(), lastSeq)
	if ok {
		for _, raw := range missed {
			if !f.write(markReplay(raw)) {
				return 0, false
			}
		}
		f.logger.Debug("feed resumed", "after", lastSeq, "replayed", len(missed))
		// Replays are gapless and consecutive.
		return lastSeq + uint64(len(missed)), true
	}

	snapshot, seq, err := f.server.engine.Snapshot()
	if err != nil {
		f.logger.Error("snapshot encode failed", "seq", seq, "error", err)
		f.sendError(protocol.ErrServerError, "snapshot unavailable", true)
		return 0, false
	}
	if !f.write(snapshot) {
		return 0, false
	}
	f.logger.Debug("feed snapshotted", "seq", seq)
	return seq, true
}

// patchFrameSeq peeks at the sequence of an encoded patch frame without
// decoding the patches.
func patchFrameSeq(raw []byte) (uint64, bool) {
	if len(raw) <= protocol.FrameHeaderSize || protocol.FrameType(raw[0]) != protocol.FramePatches {
		return 0, false
	}
	d := protocol.NewDecoder(raw[protocol.FrameHeaderSize:])
	seq, err := d.ReadUvarint()
	if err != nil {
		return 0, false
	}
	return seq, true
}

// markReplay sets the replay flag without re-encoding the frame.
func markReplay(raw []byte) []byte {
	out := make([]byte, len(raw))
	copy(out, raw)
	if len(out) >= protocol.FrameHeaderSize {
		out[1] |= byte(protocol.FlagReplay)
	}
	return out
}

// writePump delivers live frames and pings until the subscription or
// the read loop ends. Frames at or below `through` were already covered
// by the handshake sync and are dropped.
func (f *feed) writePump(frames <-chan []byte, through uint64) {
	ping := time.NewTicker(f.server.config.PingInterval)
	defer ping.Stop()

	for {
		select {
		case raw, open := <-frames:
			if !open {
				// Dropped by the engine; the consumer resyncs on
				// reconnect.
				f.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "feed lagged"),
					time.Now().Add(f.server.config.WriteTimeout))
				f.conn.Close()
				return
			}
			if seq, ok := patchFrameSeq(raw); ok && seq <= through {
				continue
			}
			if !f.write(raw) {
				return
			}

		case <-ping.C:
			pingFrame := protocol.NewFrame(protocol.FrameControl,
				protocol.EncodeControl(&protocol.Control{
					Type:  protocol.ControlPing,
					Token: uint64(time.Now().UnixNano()),
				}))
			if !f.write(pingFrame.Encode()) {
				return
			}

		case <-f.done:
			return
		}
	}
}

// readLoop handles consumer frames: acks, control, close.
func (f *feed) readLoop() {
	for {
		f.conn.SetReadDeadline(time.Now().Add(f.server.config.ReadTimeout))

		_, msg, err := f.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				f.logger.Error("read error", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			f.logger.Warn("frame decode error", "error", err)
			continue
		}

		switch frame.Type {
		case protocol.FrameAck:
			ack, err := protocol.DecodeAck(frame.Payload)
			if err != nil {
				f.logger.Warn("ack decode error", "error", err)
				continue
			}
			f.lastAck.Store(ack.Seq)
			f.logger.Debug("ack", "seq", ack.Seq)

		case protocol.FrameControl:
			if !f.handleControl(frame.Payload) {
				return
			}

		default:
			f.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

// handleControl returns false when the consumer asked to close.
func (f *feed) handleControl(payload []byte) bool {
	c, err := protocol.DecodeControl(payload)
	if err != nil {
		f.logger.Warn("control decode error", "error", err)
		return true
	}

	switch c.Type {
	case protocol.ControlPing:
		pong := protocol.NewFrame(protocol.FrameControl,
			protocol.EncodeControl(&protocol.Control{
				Type:  protocol.ControlPong,
				Token: c.Token,
			}))
		f.write(pong.Encode())

	case protocol.ControlPong:
		f.logger.Debug("pong", "token", c.Token)

	case protocol.ControlClose:
		f.logger.Debug("consumer closing")
		return false
	}
	return true
}

// write sends one encoded frame, reporting success. Both the write pump
// and the read loop (pongs, error reports) send, so writes are
// serialized here.
func (f *feed) write(raw []byte) bool {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.conn.SetWriteDeadline(time.Now().Add(f.server.config.WriteTimeout))
	if err := f.conn.WriteMessage(websocket.BinaryMessage, raw); err != nil {
		f.logger.Debug("write failed", "error", err)
		return false
	}
	return true
}

// sendError reports a protocol error, closing after when fatal.
func (f *feed) sendError(code protocol.ErrorCode, message string, fatal bool) {
	frame := protocol.NewFrame(protocol.FrameError,
		protocol.EncodeErrorMessage(&protocol.ErrorMessage{
			Code:    code,
			Message: message,
			Fatal:   fatal,
		}))
	f.write(frame.Encode())
}
