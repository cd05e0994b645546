package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/sniperthink/identity-service/internal/api/metrics"
	"github.com/sniperthink/identity-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher delivers mail asynchronously through a fixed set of workers,
// sharded by recipient so mails to the same address keep their order. The
// HTTP response never waits on delivery; failures are logged and counted,
// never propagated to the flow that queued the mail.
type Dispatcher struct {
	workers []chan ports.Mail
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.Mail, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Mail, channelBuffer)
	}
	return d
}

var _ ports.Notifier = (*Dispatcher)(nil)

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Dispatch queues a mail for delivery. Non-blocking up to channelBuffer
// capacity; a full shard drops the mail with a log entry rather than stall
// the originating request.
func (d *Dispatcher) Dispatch(mail ports.Mail) {
	select {
	case d.workers[d.shardIndex(mail.To)] <- mail:
	default:
		metrics.MailDeliveriesTotal.WithLabelValues("failed").Inc()
		d.log.Error().Str("to", mail.To).Str("subject", mail.Subject).Msg("mail queue full, dropping mail")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Mail) {
	for {
		select {
		case <-ctx.Done():
			return
		case mail, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mailer.Send(ctx, mail); err != nil {
				metrics.MailDeliveriesTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("to", mail.To).
					Str("subject", mail.Subject).
					Int("worker_id", id).
					Msg("mail delivery failed")
				continue
			}
			metrics.MailDeliveriesTotal.WithLabelValues("sent").Inc()
			d.log.Debug().Str("to", mail.To).Str("subject", mail.Subject).Msg("mail delivered")
		}
	}
}
