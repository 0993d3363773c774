// Package coderack is a cooperative work queue. Codelets are small deferred units
// of work ordered by salience; a Rack drains them on the calling goroutine and
// charges each one's declared time against a budget.
package coderack

import (
	"container/heap"
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrBudgetExhausted is returned by Drain when the next codelet would exceed the budget.
var ErrBudgetExhausted = errors.New("coderack: time budget exhausted")

// Codelet is one unit of deferred work.
type Codelet struct {
	Name     string
	Salience float64 // higher runs sooner
	Time     int     // time units charged on execution; <=0 counts as 1
	Run      func()

	seq   uint64 // insertion order, breaks salience ties FIFO
	index int    // for heap
}

// ============================================================================
// Priority queue
// ============================================================================

type codeletHeap []*Codelet

func (h codeletHeap) Len() int { return len(h) }
func (h codeletHeap) Less(i, j int) bool {
	if h[i].Salience != h[j].Salience {
		return h[i].Salience > h[j].Salience // Max heap
	}
	return h[i].seq < h[j].seq
}
func (h codeletHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }

func (h *codeletHeap) Push(x interface{}) {
	item := x.(*Codelet)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *codeletHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[0 : n-1]
	return item
}

// ============================================================================
// Rack
// ============================================================================

// Rack holds pending codelets. It is not safe for concurrent use: Post and Drain
// must run on one goroutine (codelets post from inside Run).
type Rack struct {
	queue   codeletHeap
	seq     uint64
	budget  int // 0 = unlimited
	spent   int
	steps   int
	stopped bool
	logger  *zap.Logger
}

// Option configures a Rack
type Option func(*Rack)

// WithBudget caps the total time units a Rack may spend. 0 disables the cap.
func WithBudget(units int) Option {
	return func(r *Rack) { r.budget = units }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Rack) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty Rack
func New(opts ...Option) *Rack {
	r := &Rack{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	heap.Init(&r.queue)
	return r
}

// Post enqueues c. Posting after Stop is allowed; the codelet just never runs.
func (r *Rack) Post(c *Codelet) {
	if c == nil || c.Run == nil {
		panic("coderack: codelet without Run")
	}
	r.seq++
	c.seq = r.seq
	heap.Push(&r.queue, c)
}

// Stop makes Drain return after the current codelet.
func (r *Rack) Stop() { r.stopped = true }

// Stopped reports whether Stop was called
func (r *Rack) Stopped() bool { return r.stopped }

// Len returns the number of pending codelets
func (r *Rack) Len() int { return r.queue.Len() }

// Spent returns the time units charged so far
func (r *Rack) Spent() int { return r.spent }

// Steps returns the number of codelets run so far
func (r *Rack) Steps() int { return r.steps }

// Drain runs codelets until the queue is empty or Stop is called (nil), the
// budget would be exceeded (ErrBudgetExhausted), or ctx is done (ctx.Err()).
func (r *Rack) Drain(ctx context.Context) error {
	for r.queue.Len() > 0 && !r.stopped {
		if err := ctx.Err(); err != nil {
			return err
		}

		next := r.queue[0]
		cost := next.Time
		if cost <= 0 {
			cost = 1
		}
		if r.budget > 0 && r.spent+cost > r.budget {
			r.logger.Debug("coderack budget exhausted",
				zap.Int("spent", r.spent),
				zap.Int("budget", r.budget),
				zap.Int("pending", r.queue.Len()))
			return ErrBudgetExhausted
		}

		c := heap.Pop(&r.queue).(*Codelet)
		r.spent += cost
		r.steps++
		c.Run()
	}
	return nil
}
