package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
)

const (
	mongoQueueSize = 1024
	mongoBatchSize = 50
	mongoDrainTick = 2 * time.Second
)

// ErrSinkFull is returned by MongoSink.Write when its queue is saturated.
var ErrSinkFull = errors.New("audit: sink queue full")

// ErrSinkClosed is returned by MongoSink.Write after Close.
var ErrSinkClosed = errors.New("audit: sink closed")

// MongoSink stores entries in a MongoDB collection. Writes are queued and
// inserted in batches by a single background goroutine.
type MongoSink struct {
	col    *mongo.Collection
	client *mongo.Client

	mu     sync.RWMutex
	closed bool

	queue   chan Entry
	flushCh chan chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

// NewMongoSink connects to uri and uses db/collection. Call Close to flush
// and disconnect.
func NewMongoSink(ctx context.Context, uri, db, collection string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("audit: mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("audit: mongo ping: %w", err)
	}

	col := client.Database(db).Collection(collection)

	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "time", Value: -1}},
	})

	s := &MongoSink{
		col:     col,
		client:  client,
		queue:   make(chan Entry, mongoQueueSize),
		flushCh: make(chan chan struct{}),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	go s.drainLoop()
	return s, nil
}

// Write enqueues e without blocking.
func (s *MongoSink) Write(_ context.Context, e Entry) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSinkClosed
	}

	select {
	case s.queue <- e:
		return nil
	default:
		return ErrSinkFull
	}
}

// History flushes queued entries first so a caller sees its own writes.
func (s *MongoSink) History(ctx context.Context, limit int) ([]Entry, error) {
	s.flush(ctx)

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("audit: mongo find: %w", err)
	}
	defer cur.Close(ctx)

	entries := []Entry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("audit: mongo decode: %w", err)
	}
	return entries, nil
}

func (s *MongoSink) Clear(ctx context.Context) error {
	s.flush(ctx)

	if _, err := s.col.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("audit: mongo clear: %w", err)
	}
	return nil
}

// Close flushes pending entries and disconnects. Safe to call multiple times.
func (s *MongoSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	<-s.stopped
	return s.client.Disconnect(ctx)
}

// flush asks the drain loop to write everything queued so far.
func (s *MongoSink) flush(ctx context.Context) {
	ack := make(chan struct{})
	select {
	case s.flushCh <- ack:
	case <-s.stopped:
		return
	case <-ctx.Done():
		return
	}
	select {
	case <-ack:
	case <-ctx.Done():
	}
}

func (s *MongoSink) drainLoop() {
	defer close(s.stopped)

	ticker := time.NewTicker(mongoDrainTick)
	defer ticker.Stop()

	batch := make([]any, 0, mongoBatchSize)

	write := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.col.InsertMany(ctx, batch); err != nil {
			metrics.AuditDropped.Add(float64(len(batch)))
			logger.Warn("audit: mongo insert failed", "entries", len(batch), "error", err)
		}
		batch = batch[:0]
	}

	drainQueued := func() {
		for {
			select {
			case e := <-s.queue:
				batch = append(batch, e)
				if len(batch) >= mongoBatchSize {
					write()
				}
			default:
				return
			}
		}
	}

	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= mongoBatchSize {
				write()
			}
		case ack := <-s.flushCh:
			drainQueued()
			write()
			close(ack)
		case <-ticker.C:
			write()
		case <-s.done:
			drainQueued()
			write()
			return
		}
	}
}
