package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/weft-ui/weft/pkg/apply"
	"github.com/weft-ui/weft/pkg/archive"
	"github.com/weft-ui/weft/pkg/protocol"
	"github.com/weft-ui/weft/pkg/vdom"
)

// Engine errors.
var (
	// ErrNotMounted is returned by Render before Mount.
	ErrNotMounted = errors.New("engine: no tree mounted")

	// ErrMounted is returned by Mount when a tree is already mounted.
	ErrMounted = errors.New("engine: tree already mounted")
)

// tracerName is the OpenTelemetry tracer for render passes.
const tracerName = "weft-engine"

// subscriberBuffer is the per-subscriber frame channel depth. A consumer
// that falls this far behind is dropped rather than allowed to stall a
// pass.
const subscriberBuffer = 32

// Engine drives reconcile passes over one authoritative tree.
//
// The reconciler itself is single-threaded and briefly aliases both input
// trees; the engine is the concurrency boundary around it. Every pass runs
// under one mutex: reconcile, mirror apply, frame encode, history,
// archive, fan-out. Reads of the current sequence and snapshot take the
// same lock, so a subscriber can line up a snapshot and a live feed
// without a seam.
type Engine struct {
	mu      sync.Mutex
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics
	store   archive.Store

	tree    *apply.Tree
	current *vdom.VNode
	seq     uint64

	history *History

	subs   map[uint64]chan []byte
	nextID uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHistory sets the in-memory frame retention.
func WithHistory(n int) Option {
	return func(e *Engine) {
		e.history = NewHistory(n)
	}
}

// WithMetrics registers Prometheus collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		if reg != nil {
			e.metrics = newMetrics(reg)
		}
	}
}

// WithTracer sets the tracer provider for per-pass spans. Without this
// option the global provider is used, which is a no-op unless the host
// application configured one.
func WithTracer(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		if tp != nil {
			e.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithArchive attaches a frame archive. Every produced frame is written
// through; archive failures are logged and counted, never fail a pass.
func WithArchive(store archive.Store) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// New creates an engine. Mount a tree before rendering.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
		subs:   make(map[uint64]chan []byte),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.history == nil {
		e.history = NewHistory(DefaultHistorySize)
	}
	return e
}

// Pass summarizes one engine operation.
type Pass struct {
	Seq        uint64        // Sequence after the pass
	Patches    int           // Patches produced
	FrameBytes int           // Total encoded frame bytes; zero for an empty pass
	Faults     bool          // Mirror apply reported faults
	Duration   time.Duration // Wall time under the engine lock
}

// Mount installs the initial tree at sequence zero. The tree is realized
// in the mirror so bindings exist before the first Render.
func (e *Engine) Mount(ctx context.Context, root *vdom.VNode) (Pass, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tree != nil {
		return Pass{}, ErrMounted
	}

	start := time.Now()
	e.tree = apply.Mount(root, apply.WithLogger(e.logger))
	e.current = root
	e.seq = 0

	e.logger.Debug("tree mounted", "instances", e.tree.Len())
	return Pass{Seq: 0, Duration: time.Since(start)}, nil
}

// Render reconciles the mounted tree against next and ships the result:
// mirror apply, history, archive, subscriber fan-out. next becomes the
// authoritative tree. An empty diff produces no frame and does not
// advance the sequence. A pass too large for one frame is split into a
// batch, one sequence number per frame, and advances the sequence by the
// batch size.
func (e *Engine) Render(ctx context.Context, next *vdom.VNode) (Pass, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tree == nil {
		return Pass{}, ErrNotMounted
	}

	ctx, span := e.tracer.Start(ctx, "engine.render")
	defer span.End()

	start := time.Now()
	patches := vdom.Diff(e.current, next)

	if len(patches) == 0 {
		// Bindings may still have fresher handler closures.
		e.tree.Rebind(next)
		e.current = next
		span.SetAttributes(attribute.Int("weft.patch_count", 0))
		return Pass{Seq: e.seq, Duration: time.Since(start)}, nil
	}

	// Encode before touching any state. A pass whose patches cannot be
	// framed must leave the tree, mirror, and sequence exactly as they
	// were.
	frames, err := protocol.EncodePassFrames(e.seq+1, patches)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "frame encode failed")
		return Pass{}, err
	}

	applyErr := e.tree.Apply(patches)
	if applyErr != nil {
		e.metrics.fault()
		e.logger.Warn("mirror apply reported faults", "seq", e.seq+1, "error", applyErr)
		span.RecordError(applyErr)
		span.SetStatus(codes.Error, "mirror apply faults")
	}
	e.tree.Rebind(next)
	e.current = next

	totalBytes := 0
	for _, f := range frames {
		e.seq++
		raw := f.Encode()
		totalBytes += len(raw)
		if e.history.Add(e.seq, raw) {
			e.metrics.eviction()
		}
		if e.store != nil {
			if err := e.store.Put(ctx, e.seq, raw); err != nil {
				e.metrics.archiveError()
				e.logger.Error("archive write failed", "seq", e.seq, "error", err)
			}
		}
		e.fanOut(raw)
	}

	elapsed := time.Since(start)
	e.metrics.pass(patches, elapsed.Seconds(), totalBytes)
	span.SetAttributes(
		attribute.Int64("weft.seq", int64(e.seq)),
		attribute.Int("weft.patch_count", len(patches)),
		attribute.Int("weft.frame_count", len(frames)),
		attribute.Int("weft.frame_bytes", totalBytes),
	)
	e.logger.Debug("pass complete",
		"seq", e.seq,
		"patches", len(patches),
		"frames", len(frames),
		"bytes", totalBytes,
		"elapsed", elapsed)

	return Pass{
		Seq:        e.seq,
		Patches:    len(patches),
		FrameBytes: totalBytes,
		Faults:     applyErr != nil,
		Duration:   elapsed,
	}, nil
}

// fanOut delivers a frame to every subscriber, dropping any whose buffer
// is full. A slow consumer must never block a pass; it recovers through
// history or a snapshot.
func (e *Engine) fanOut(frame []byte) {
	for id, ch := range e.subs {
		select {
		case ch <- frame:
		default:
			e.logger.Warn("dropping slow subscriber", "subscriber", id)
			delete(e.subs, id)
			close(ch)
			e.metrics.subscriberDelta(-1)
		}
	}
}

// Subscribe registers a live frame feed. The channel is closed on
// Unsubscribe, on engine Close, or when the subscriber falls too far
// behind.
func (e *Engine) Subscribe() (uint64, <-chan []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	ch := make(chan []byte, subscriberBuffer)
	e.subs[e.nextID] = ch
	e.metrics.subscriberDelta(1)
	return e.nextID, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (e *Engine) Unsubscribe(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ch, ok := e.subs[id]; ok {
		delete(e.subs, id)
		close(ch)
		e.metrics.subscriberDelta(-1)
	}
}

// Seq returns the current sequence number.
func (e *Engine) Seq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

// Tree returns the mirror tree, nil before Mount. The mirror is only
// safe to read between passes.
func (e *Engine) Tree() *apply.Tree {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree
}

// Snapshot encodes the authoritative tree as a snapshot frame at the
// current sequence. A tree that encodes past the frame payload limit
// yields protocol.ErrFrameTooLarge.
func (e *Engine) Snapshot() ([]byte, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	payload := protocol.EncodeSnapshot(&protocol.Snapshot{
		Seq:  e.seq,
		Root: protocol.ToWire(e.current),
	})
	if len(payload) > protocol.MaxPayloadSize {
		return nil, e.seq, protocol.ErrFrameTooLarge
	}
	return protocol.NewFrame(protocol.FrameSnapshot, payload).Encode(), e.seq, nil
}

// Current returns the authoritative tree. Callers must treat it as
// read-only; it is the live input of the next pass.
func (e *Engine) Current() *vdom.VNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Frames returns every frame after afterSeq for consumer resync,
// consulting the history ring first and falling back to the archive for
// spans the ring evicted. Returns (nil, false) when the span cannot be
// reproduced; the consumer needs a snapshot.
func (e *Engine) Frames(ctx context.Context, afterSeq uint64) ([][]byte, bool) {
	e.mu.Lock()
	seq := e.seq
	store := e.store
	frames, ok := e.history.Frames(afterSeq)
	e.mu.Unlock()

	if ok {
		return frames, true
	}
	if store == nil || afterSeq >= seq {
		return nil, false
	}

	archived, err := store.Range(ctx, afterSeq+1, seq)
	if err != nil {
		if !errors.Is(err, archive.ErrNotFound) {
			e.logger.Error("archive replay failed", "after", afterSeq, "error", err)
		}
		return nil, false
	}
	return archived, true
}

// Close drops all subscribers. The archive store, if any, is owned by
// the caller and stays open.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
		e.metrics.subscriberDelta(-1)
	}
}
