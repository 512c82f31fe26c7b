package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/learnhub/courseguard/pkg/logger"
)

// AsyncOptions configures buffering and batching.
type AsyncOptions struct {
	BufferSize     int           // entries queued before Store falls back to a synchronous write
	BatchSize      int           // entries per flush
	BatchTimeout   time.Duration // max wait for a partial batch
	StorageTimeout time.Duration // per-flush timeout
}

// AsyncStorage queues entries and writes them in batches from one goroutine.
// Store returns once the entry is queued; flush failures are logged.
type AsyncStorage struct {
	next    Storage
	batch   func(ctx context.Context, entries []Entry) error
	queue   chan Entry
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // held for reading while enqueueing, for writing while closing
	closed  bool
	options AsyncOptions
	log     *slog.Logger
}

// NewAsyncStorage wraps next. If next is a BatchStorage its StoreBatch is
// used for flushes; otherwise entries are written one by one.
func NewAsyncStorage(next Storage, opts AsyncOptions, log *slog.Logger) *AsyncStorage {
	if next == nil {
		panic("audit: storage cannot be nil")
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	as := &AsyncStorage{
		next:    next,
		queue:   make(chan Entry, opts.BufferSize),
		done:    make(chan struct{}),
		options: opts,
		log:     log,
	}

	if bs, ok := next.(BatchStorage); ok {
		as.batch = bs.StoreBatch
	} else {
		as.batch = func(ctx context.Context, entries []Entry) error {
			var errs []error
			for _, e := range entries {
				if err := next.Store(ctx, e); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		}
	}

	as.wg.Add(1)
	go as.worker()

	return as
}

// Store queues entry. When the buffer is full the entry is written
// synchronously so it is never dropped.
func (as *AsyncStorage) Store(ctx context.Context, entry Entry) error {
	as.mu.RLock()
	defer as.mu.RUnlock()

	if as.closed {
		return ErrStorageNotAvailable
	}

	select {
	case as.queue <- entry:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return as.next.Store(ctx, entry)
	}
}

// Recent reads from the wrapped storage. Entries still queued are not visible.
func (as *AsyncStorage) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return as.next.Recent(ctx, limit)
}

func (as *AsyncStorage) worker() {
	defer as.wg.Done()

	pending := make([]Entry, 0, as.options.BatchSize)
	ticker := time.NewTicker(as.options.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), as.options.StorageTimeout)
		defer cancel()

		if err := as.batch(ctx, pending); err != nil {
			as.log.ErrorContext(ctx, "audit batch not stored",
				logger.Component("audit"),
				slog.Int("entries", len(pending)),
				logger.Error(err),
			)
		}
		clear(pending)
		pending = pending[:0]
	}

	for {
		select {
		case e := <-as.queue:
			pending = append(pending, e)
			if len(pending) >= as.options.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-as.done:
			for {
				select {
				case e := <-as.queue:
					pending = append(pending, e)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops accepting entries and flushes what is queued. Every Store that
// returned nil before Close is part of the final flush. The context bounds how
// long to wait for it.
func (as *AsyncStorage) Close(ctx context.Context) error {
	as.once.Do(func() {
		as.mu.Lock()
		as.closed = true
		close(as.done)
		as.mu.Unlock()
	})

	finished := make(chan struct{})
	go func() {
		as.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
