package eventlog

import (
	"log"

	"github.com/google/uuid"
)

// Writer decouples the sampling loop from SQLite latency. Record never
// blocks; when the queue is full the entry is dropped with a log line,
// which beats stalling a 50Hz loop.
type Writer struct {
	store *Store
	ch    chan Entry
	done  chan struct{}
}

// NewWriter starts the background writer. A nil store yields a writer
// that discards everything, so callers need no special case when
// persistence is disabled.
func NewWriter(store *Store) *Writer {
	w := &Writer{
		store: store,
		ch:    make(chan Entry, 64),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Record queues one entry for persistence, assigning its ID.
func (w *Writer) Record(e Entry) {
	if w.store == nil {
		return
	}
	e.ID = uuid.NewString()
	select {
	case w.ch <- e:
	default:
		log.Printf("event log: queue full, dropping %s entry", e.Kind)
	}
}

func (w *Writer) run() {
	defer close(w.done)
	for e := range w.ch {
		if err := w.store.Insert(e); err != nil {
			log.Printf("event log: %v", err)
		}
	}
}

// Close drains the queue and stops the writer. The store itself is not
// closed; the owner does that.
func (w *Writer) Close() {
	close(w.ch)
	<-w.done
}
