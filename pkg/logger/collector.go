package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

const publishTimeout = 30 * time.Second

// Publisher ships aggregated log batches somewhere durable (Kafka in production).
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	TimeInterval   time.Duration // flush interval
	CountThreshold int           // distinct entries that trigger an early flush
	Topic          string
	Publisher      Publisher
}

type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector folds repeated entries into one with a count and ships the
// pending set in batches. Once closed it drops new entries.
type LogCollector struct {
	cfg CollectionConfig

	mu      sync.Mutex
	pending map[string]*AggregatedLogEntry
	closed  bool

	stop      chan struct{}
	closeOnce sync.Once
	loopDone  chan struct{}
	inflight  sync.WaitGroup
}

func NewLogCollector(cfg *CollectionConfig) *LogCollector {
	c := &LogCollector{
		cfg:      *cfg,
		pending:  make(map[string]*AggregatedLogEntry),
		stop:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	if c.cfg.TimeInterval <= 0 {
		c.cfg.TimeInterval = 30 * time.Second
	}
	if c.cfg.CountThreshold <= 0 {
		c.cfg.CountThreshold = 100
	}

	go c.loop()
	return c
}

// AddLog records one entry. Identical level, message, fields and caller
// share a single aggregated entry.
func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	key := entryKey(level, message, fields, caller)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	entry, ok := c.pending[key]
	if !ok {
		entry = &AggregatedLogEntry{Level: level, Message: message, Fields: fields, Caller: caller, FirstSeen: now}
		c.pending[key] = entry
	}
	entry.Count++
	entry.LastSeen = now

	if len(c.pending) >= c.cfg.CountThreshold {
		c.ship(c.takeLocked())
	}
}

// Pending returns the number of distinct entries waiting to be flushed.
func (c *LogCollector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close stops the flush loop, ships what is left and waits for every
// publish to return. It is safe to call more than once.
func (c *LogCollector) Close() {
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.loopDone

		c.mu.Lock()
		c.closed = true
		batch := c.takeLocked()
		c.mu.Unlock()

		c.ship(batch)
		c.inflight.Wait()
	})
}

func (c *LogCollector) loop() {
	defer close(c.loopDone)

	ticker := time.NewTicker(c.cfg.TimeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			batch := c.takeLocked()
			c.mu.Unlock()
			c.ship(batch)
		case <-c.stop:
			return
		}
	}
}

// takeLocked empties the pending set; c.mu must be held.
func (c *LogCollector) takeLocked() []AggregatedLogEntry {
	if len(c.pending) == 0 {
		return nil
	}
	batch := make([]AggregatedLogEntry, 0, len(c.pending))
	for _, e := range c.pending {
		batch = append(batch, *e)
	}
	c.pending = make(map[string]*AggregatedLogEntry)
	return batch
}

func (c *LogCollector) ship(batch []AggregatedLogEntry) {
	if len(batch) == 0 || c.cfg.Publisher == nil {
		return
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := c.cfg.Publisher.PublishMessage(ctx, c.cfg.Topic, batch); err != nil {
			// cannot go through the logger that is being shipped
			fmt.Fprintf(os.Stderr, "shipping %d log entries failed: %v\n", len(batch), err)
		}
	}()
}

// entryKey relies on encoding/json sorting map keys, so equal field sets
// produce equal keys.
func entryKey(level, message string, fields map[string]interface{}, caller string) string {
	b, err := json.Marshal(struct {
		L string                 `json:"l"`
		M string                 `json:"m"`
		F map[string]interface{} `json:"f"`
		C string                 `json:"c"`
	}{level, message, fields, caller})
	if err != nil {
		return fmt.Sprintf("%s|%s|%s|%v", level, message, caller, fields)
	}
	return string(b)
}
