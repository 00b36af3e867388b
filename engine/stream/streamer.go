package stream

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/getsentry/sentry-go"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/memmaker/voxelengine/engine/worldgen"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
)

var ErrStreamerClosed = errors.New("streamer closed")

type Result struct {
	Pos   voxel.Int3
	Chunk *voxel.Chunk
	Err   error
}

// Streamer generates chunks on a pool of worker goroutines. Requests wait in an
// insertion ordered queue until Pump hands them to the workers, so the same
// position is never generated twice at once.
type Streamer struct {
	gen worldgen.Generator

	mu       deadlock.Mutex
	pending  *orderedmap.OrderedMap[voxel.Int3, time.Time]
	inFlight map[voxel.Int3]bool
	closed   bool

	jobs    chan voxel.Int3
	results chan Result
	done    chan struct{}
	g       sync.WaitGroup
	once    sync.Once
}

// NewStreamer starts workers goroutines (GOMAXPROCS when <= 0). queue bounds the
// number of dispatched but unfinished jobs.
func NewStreamer(gen worldgen.Generator, workers, queue int) *Streamer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if queue <= 0 {
		queue = workers * 4
	}
	s := &Streamer{
		gen:      gen,
		pending:  orderedmap.NewOrderedMap[voxel.Int3, time.Time](),
		inFlight: make(map[voxel.Int3]bool),
		jobs:     make(chan voxel.Int3, queue),
		results:  make(chan Result, queue),
		done:     make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		s.g.Add(1)
		go s.worker()
	}
	util.LogStreamDebug(fmt.Sprintf("started %d stream workers for generator %s", workers, gen.Name()))
	return s
}

func (s *Streamer) worker() {
	defer s.g.Done()
	for {
		select {
		case <-s.done:
			return
		case pos := <-s.jobs:
			r := s.generate(pos)
			select {
			case s.results <- r:
			case <-s.done:
				return
			}
		}
	}
}

func (s *Streamer) generate(pos voxel.Int3) (r Result) {
	r.Pos = pos
	defer func() {
		if err := recover(); err != nil {
			hub := sentry.CurrentHub().Clone()
			hub.Recover(err)
			hub.Flush(time.Second * 5)
			r.Chunk = nil
			r.Err = errors.Errorf("generating chunk %v: %v", pos, err)
			util.LogStreamError(r.Err.Error())
		}
	}()
	r.Chunk = s.gen.GenerateChunk(pos)
	return r
}

// Request queues pos for generation. It returns false when pos is already queued,
// being generated or the streamer is closed.
func (s *Streamer) Request(pos voxel.Int3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.inFlight[pos] {
		return false
	}
	if _, ok := s.pending.Get(pos); ok {
		return false
	}
	s.pending.Set(pos, time.Now())
	return true
}

// Cancel drops a request that was not dispatched yet.
func (s *Streamer) Cancel(pos voxel.Int3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Delete(pos)
}

// CancelWhere drops every request that was not dispatched yet and matches drop.
// It returns how many were dropped.
func (s *Streamer) CancelWhere(drop func(pos voxel.Int3) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancelled := 0
	for _, pos := range s.pending.Keys() {
		if drop(pos) && s.pending.Delete(pos) {
			cancelled++
		}
	}
	return cancelled
}

// Pump moves queued requests to the workers in request order until the job
// queue is full and returns how many were dispatched.
func (s *Streamer) Pump() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	dispatched := 0
	for el := s.pending.Front(); el != nil; {
		next := el.Next()
		select {
		case s.jobs <- el.Key:
			s.inFlight[el.Key] = true
			s.pending.Delete(el.Key)
			dispatched++
		default:
			return dispatched
		}
		el = next
	}
	return dispatched
}

// Drain returns up to max finished results without blocking. max <= 0 drains everything available.
func (s *Streamer) Drain(max int) []Result {
	var result []Result
	for max <= 0 || len(result) < max {
		select {
		case r := <-s.results:
			s.finish(r.Pos)
			result = append(result, r)
		default:
			return result
		}
	}
	return result
}

func (s *Streamer) finish(pos voxel.Int3) {
	s.mu.Lock()
	delete(s.inFlight, pos)
	s.mu.Unlock()
}

// Collect pumps and waits until n results arrived or ctx is done.
func (s *Streamer) Collect(ctx context.Context, n int) ([]Result, error) {
	result := make([]Result, 0, n)
	for len(result) < n {
		s.Pump()
		select {
		case <-ctx.Done():
			return result, errors.Wrap(ctx.Err(), "collecting chunks")
		case <-s.done:
			return result, ErrStreamerClosed
		case r := <-s.results:
			s.finish(r.Pos)
			result = append(result, r)
		}
	}
	return result, nil
}

// Pending counts queued and in-flight requests.
func (s *Streamer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Len() + len(s.inFlight)
}

func (s *Streamer) IsPending(pos voxel.Int3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[pos] {
		return true
	}
	_, ok := s.pending.Get(pos)
	return ok
}

// Close stops the workers. Unfinished requests are discarded.
func (s *Streamer) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		discarded := s.pending.Len()
		s.mu.Unlock()
		close(s.done)
		s.g.Wait()
		if discarded > 0 {
			util.LogStreamWarning(fmt.Sprintf("discarded %d queued chunk requests", discarded))
		}
		util.LogStreamDebug("stream workers stopped")
	})
}
