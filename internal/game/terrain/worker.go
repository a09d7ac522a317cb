package terrain

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tactica/tactica-core/internal/errors"
)

var (
	// ErrRequestInFlight is returned when a request is submitted before the
	// previous response has been collected. Responses carry no request id, so
	// the worker only correlates them by order.
	ErrRequestInFlight = stderrors.New("terrain request already in flight")
	// ErrNoRequest is returned by Await when nothing was submitted.
	ErrNoRequest = stderrors.New("no terrain request in flight")
	// ErrWorkerStopped is returned once the worker goroutine has exited.
	ErrWorkerStopped = stderrors.New("terrain worker stopped")
)

// Response is the message the worker sends back.
type Response struct {
	Terrain *Networks `json:"terrain,omitempty"`
	Error   string    `json:"error,omitempty"`
	Code    string    `json:"code,omitempty"`
}

// Worker runs generation on its own goroutine behind a JSON message
// boundary. Only one request may be outstanding at a time.
type Worker struct {
	logger *zap.Logger

	requests  chan []byte
	responses chan []byte
	done      chan struct{}

	inFlight  atomic.Bool
	startOnce sync.Once

	mu    sync.Mutex
	drain chan struct{} // closed once an abandoned response has been dropped
}

// NewWorker creates a worker. Call Start before submitting.
func NewWorker(logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		logger:    logger,
		requests:  make(chan []byte, 1),
		responses: make(chan []byte, 1),
		done:      make(chan struct{}),
	}
}

// Start launches the worker goroutine. It exits when ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		go w.loop(ctx)
	})
}

// Done is closed once the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)
	w.logger.Debug("terrain worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("terrain worker stopped", zap.Error(ctx.Err()))
			return
		case msg := <-w.requests:
			out := w.handle(msg)
			select {
			case w.responses <- out:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *Worker) handle(msg []byte) []byte {
	var req Request
	var resp Response
	if err := json.Unmarshal(msg, &req); err != nil {
		resp.Error = err.Error()
		resp.Code = string(errors.CodeWorkerTransport)
	} else if nets, err := Generate(req); err != nil {
		resp.Error = err.Error()
		resp.Code = string(errors.CodeOf(err))
		w.logger.Warn("terrain generation rejected",
			zap.Int("width", req.Width),
			zap.Int("height", req.Height),
			zap.Error(err),
		)
	} else {
		resp.Terrain = &nets
		w.logger.Debug("terrain generated",
			zap.Uint32("seed", req.Seed),
			zap.Int("road_cells", len(nets.Road)),
			zap.Int("river_cells", len(nets.River)),
			zap.Uint32("next_seed", nets.NextSeed),
		)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		w.logger.Error("failed to encode terrain response", zap.Error(err))
		out = []byte(`{"error":"encode failure","code":"` + string(errors.CodeWorkerTransport) + `"}`)
	}
	return out
}

// Submit serializes req and hands it to the worker.
func (w *Worker) Submit(req Request) error {
	select {
	case <-w.done:
		return ErrWorkerStopped
	default:
	}
	if !w.inFlight.CompareAndSwap(false, true) {
		return ErrRequestInFlight
	}
	msg, err := json.Marshal(req)
	if err != nil {
		w.inFlight.Store(false)
		return errors.Invariant(errors.CodeWorkerTransport, "encode terrain request").Wrap(err)
	}
	w.requests <- msg
	return nil
}

// Await blocks until the response to the outstanding request arrives. If
// ctx ends first the request is abandoned: its response is dropped when it
// arrives and the slot frees up then (see Settle).
func (w *Worker) Await(ctx context.Context) (Networks, error) {
	if !w.inFlight.Load() || w.draining() {
		return Networks{}, ErrNoRequest
	}
	if err := ctx.Err(); err != nil {
		w.abandon()
		return Networks{}, err
	}
	var msg []byte
	select {
	case msg = <-w.responses:
	case <-ctx.Done():
		w.abandon()
		return Networks{}, ctx.Err()
	case <-w.done:
		return Networks{}, ErrWorkerStopped
	}
	w.inFlight.Store(false)

	var resp Response
	if err := json.Unmarshal(msg, &resp); err != nil {
		return Networks{}, errors.Invariant(errors.CodeWorkerTransport, "decode terrain response").Wrap(err)
	}
	if resp.Error != "" {
		kind := errors.KindConfig
		if errors.Code(resp.Code) == errors.CodeWorkerTransport {
			kind = errors.KindInvariant
		}
		return Networks{}, &errors.Error{Kind: kind, Code: errors.Code(resp.Code), Message: resp.Error}
	}
	if resp.Terrain == nil {
		return Networks{}, errors.Invariant(errors.CodeWorkerTransport, "terrain response without payload")
	}
	return *resp.Terrain, nil
}

// abandon hands the outstanding response to a goroutine that discards it
// and releases the in-flight slot.
func (w *Worker) abandon() {
	drained := make(chan struct{})
	w.mu.Lock()
	w.drain = drained
	w.mu.Unlock()

	go func() {
		defer close(drained)
		select {
		case <-w.responses:
			w.logger.Debug("dropped abandoned terrain response")
		case <-w.done:
		}
		w.inFlight.Store(false)
	}()
}

func (w *Worker) draining() bool {
	w.mu.Lock()
	d := w.drain
	w.mu.Unlock()
	if d == nil {
		return false
	}
	select {
	case <-d:
		return false
	default:
		return true
	}
}

// Settle waits until the response of an abandoned request has been dropped,
// so the next Submit gets a free slot.
func (w *Worker) Settle(ctx context.Context) error {
	w.mu.Lock()
	d := w.drain
	w.mu.Unlock()
	if d == nil {
		return nil
	}
	select {
	case <-d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Generate submits req and waits for its result.
func (w *Worker) Generate(ctx context.Context, req Request) (Networks, error) {
	if err := w.Settle(ctx); err != nil {
		return Networks{}, err
	}
	if err := w.Submit(req); err != nil {
		return Networks{}, err
	}
	return w.Await(ctx)
}
