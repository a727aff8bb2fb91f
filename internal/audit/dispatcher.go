package audit

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/sales-crm/internal/domain/activity"
)

const (
	queueSize    = 100
	writeTimeout = 5 * time.Second
)

type Writer interface {
	Insert(ctx context.Context, rec activity.Record) error
}

// Dispatcher persists activity records off the request path.
type Dispatcher struct {
	writer Writer
	log    logrus.FieldLogger
	queue  chan activity.Record

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(writer Writer, log logrus.FieldLogger) *Dispatcher {
	d := &Dispatcher{
		writer: writer,
		log:    log,
		queue:  make(chan activity.Record, queueSize),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for rec := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := d.writer.Insert(ctx, rec)
		cancel()

		if err != nil {
			d.log.WithFields(logrus.Fields{
				"module":   "audit",
				"funcName": "worker",
				"id":       rec.ID,
				"action":   rec.Action,
			}).Error(err.Error())
		}
	}
}

// Dispatch enqueues rec. When the queue is full the record is dropped,
// activity logging never blocks or fails a request.
func (d *Dispatcher) Dispatch(rec activity.Record) bool {
	select {
	case d.queue <- rec:
		return true
	default:
		d.log.WithFields(logrus.Fields{
			"module": "audit",
			"id":     rec.ID,
			"action": rec.Action,
		}).Warn("activity queue full, dropping record")
		return false
	}
}

// Close stops accepting records and waits for the queue to drain.
// Dispatch must not be called after Close.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
