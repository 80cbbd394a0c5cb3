package realtime

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/devshowcase/showcase-api/internal/api/metrics"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher moves committed comments off the request path and broadcasts
// them to their project room. Comments are sharded on the project id, so
// subscribers of one project see them in commit order.
type Dispatcher struct {
	workers []chan ports.CommentView
	hub     *Hub
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to buffer comments. Non-positive values fall back to defaults.
func NewDispatcher(numWorkers, buffer int, hub *Hub, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan ports.CommentView, numWorkers),
		hub:     hub,
		log:     log.With().Str("component", "realtime_dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CommentView, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// CommentCreated enqueues a comment for broadcast. It never blocks: when the
// shard is full the notification is dropped and logged.
func (d *Dispatcher) CommentCreated(view ports.CommentView) {
	idx := d.shardIndex(view.ProjectID)
	select {
	case d.workers[idx] <- view:
		metrics.BroadcastQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.BroadcastQueueDropsTotal.Inc()
		d.log.Warn().
			Str("project_id", view.ProjectID).
			Str("comment_id", view.ID).
			Int("worker_id", idx).
			Msg("broadcast queue full, notification dropped")
	}
}

// shardIndex maps a project id deterministically to a worker index.
func (d *Dispatcher) shardIndex(projectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(projectID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CommentView) {
	depth := metrics.BroadcastQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case view, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))

			start := time.Now()
			delivered, dropped := d.hub.Broadcast(CommentRoom(view.ProjectID), Frame{Event: EventNewComment, Data: view})
			metrics.BroadcastDuration.Observe(time.Since(start).Seconds())
			metrics.BroadcastDeliveriesTotal.WithLabelValues("delivered").Add(float64(delivered))
			metrics.BroadcastDeliveriesTotal.WithLabelValues("dropped").Add(float64(dropped))

			d.log.Debug().
				Str("project_id", view.ProjectID).
				Str("comment_id", view.ID).
				Int("worker_id", id).
				Int("delivered", delivered).
				Msg("comment broadcast")
		}
	}
}
