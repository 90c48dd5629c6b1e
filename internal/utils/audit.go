package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viet-college/app-dept-pages/internal/logging"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// AuditLog records one admin change to a department page
type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug      string             `bson:"slug" json:"slug"`
	Action    string             `bson:"action" json:"action"`
	Resource  string             `bson:"resource" json:"resource"`
	Operator  string             `bson:"operator,omitempty" json:"operator,omitempty"`
	IPAddress string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	RequestID string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// Audit constants
const (
	AuditActionUpdate     = "UPDATE"
	AuditActionUpload     = "UPLOAD"
	AuditActionDelete     = "DELETE"
	AuditActionInvalidate = "INVALIDATE"

	AuditResourceSections   = "sections"
	AuditResourceCurriculum = "curriculum"
	AuditResourceHero       = "hero"
	AuditResourceAsset      = "asset"
	AuditResourceCache      = "cache"
)

// AuditContext identifies who made a change
type AuditContext struct {
	Operator  string
	IPAddress string
	UserAgent string
	RequestID string
}

// AuditSink stores audit entries
type AuditSink interface {
	InsertBatch(ctx context.Context, logs []AuditLog) error
}

// MongoAuditSink writes audit entries into a collection with unordered bulk inserts
type MongoAuditSink struct {
	collection *mongo.Collection
}

// NewMongoAuditSink creates a sink for the given collection
func NewMongoAuditSink(collection *mongo.Collection) *MongoAuditSink {
	return &MongoAuditSink{collection: collection}
}

// InsertBatch implements AuditSink
func (s *MongoAuditSink) InsertBatch(ctx context.Context, logs []AuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	operations := make([]mongo.WriteModel, 0, len(logs))
	for _, log := range logs {
		operations = append(operations, mongo.NewInsertOneModel().SetDocument(log))
	}
	if _, err := s.collection.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to insert audit log batch: %w", err)
	}
	return nil
}

// AuditWorker batches audit entries and writes them in the background. A nil
// *AuditWorker records nothing, which is how audit logging is disabled.
type AuditWorker struct {
	sink       AuditSink
	logger     *logging.SafeLogger
	auditChan  chan AuditLog
	workers    int
	batchSize  int
	flushEvery time.Duration
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// NewAuditWorker starts workers goroutines draining a buffer of bufferSize entries
func NewAuditWorker(sink AuditSink, workers, bufferSize int, logger *logging.SafeLogger) *AuditWorker {
	if workers < 1 {
		workers = 1
	}
	if bufferSize < 1 {
		bufferSize = 1
	}
	aw := &AuditWorker{
		sink:       sink,
		logger:     logger.Named("audit"),
		auditChan:  make(chan AuditLog, bufferSize),
		workers:    workers,
		batchSize:  100,
		flushEvery: 100 * time.Millisecond,
	}
	aw.start()
	return aw
}

func (aw *AuditWorker) start() {
	aw.wg.Add(aw.workers)
	for i := 0; i < aw.workers; i++ {
		go func() {
			defer aw.wg.Done()
			aw.processAuditLogs()
		}()
	}

	aw.logger.Info("audit worker started",
		zap.Int("workers", aw.workers),
		zap.Int("buffer_size", cap(aw.auditChan)))
}

func (aw *AuditWorker) processAuditLogs() {
	ticker := time.NewTicker(aw.flushEvery)
	defer ticker.Stop()

	var batch []AuditLog
	for {
		select {
		case log, ok := <-aw.auditChan:
			if !ok {
				aw.flushBatch(batch)
				return
			}
			batch = append(batch, log)
			if len(batch) >= aw.batchSize {
				aw.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				aw.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (aw *AuditWorker) flushBatch(batch []AuditLog) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := aw.sink.InsertBatch(ctx, batch); err != nil {
		aw.logger.Error("failed to write audit batch",
			zap.Int("batch_size", len(batch)),
			zap.Error(err))
		return
	}
	aw.logger.Debug("audit batch written", zap.Int("batch_size", len(batch)))
}

// Record queues an audit entry without blocking. When the buffer is full the
// entry is written synchronously.
func (aw *AuditWorker) Record(ctx context.Context, auditCtx AuditContext, action, resource, slug string, metadata map[string]string) {
	if aw == nil {
		return
	}
	log := AuditLog{
		Slug:      slug,
		Action:    action,
		Resource:  resource,
		Operator:  auditCtx.Operator,
		IPAddress: auditCtx.IPAddress,
		UserAgent: auditCtx.UserAgent,
		RequestID: auditCtx.RequestID,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}

	select {
	case aw.auditChan <- log:
	default:
		aw.logger.Warn("audit buffer full, writing synchronously",
			zap.String("slug", slug),
			zap.String("action", action))
		dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := aw.sink.InsertBatch(dbCtx, []AuditLog{log}); err != nil {
			aw.logger.Error("failed to write audit entry", zap.String("slug", slug), zap.Error(err))
		}
	}
}

// Stop flushes queued entries and stops the workers. Record must not be called afterwards.
func (aw *AuditWorker) Stop() {
	if aw == nil {
		return
	}
	aw.stopOnce.Do(func() {
		close(aw.auditChan)
		aw.wg.Wait()
	})
}

// Stats reports buffer usage
func (aw *AuditWorker) Stats() map[string]interface{} {
	if aw == nil {
		return map[string]interface{}{"status": "disabled"}
	}
	return map[string]interface{}{
		"status":           "running",
		"workers":          aw.workers,
		"buffer_capacity":  cap(aw.auditChan),
		"buffer_usage":     len(aw.auditChan),
		"buffer_available": cap(aw.auditChan) - len(aw.auditChan),
	}
}
