package kernel

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/orderdesk/config"
	"github.com/shashiranjanraj/orderdesk/pkg/audit"
	"github.com/shashiranjanraj/orderdesk/pkg/cache"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/storage"
)

// Boot opens every dependency named by the configuration and builds the
// App over them. On failure whatever was already opened is closed again.
func Boot(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := database.Connect()
	if err != nil {
		return nil, err
	}

	disks, err := storage.New(storage.Config{
		Default:    config.StorageDefault(),
		LocalRoot:  config.StorageLocalRoot(),
		LocalURL:   config.StorageURL(),
		S3Bucket:   config.StorageS3Bucket(),
		S3Region:   config.StorageS3Region(),
		S3Key:      config.StorageS3Key(),
		S3Secret:   config.StorageS3Secret(),
		S3Endpoint: config.StorageS3Endpoint(),
		S3URL:      config.StorageS3URL(),
	})
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	sink, err := OpenAuditSink(ctx)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	opts := Options{
		DB:            db,
		Cache:         cache.Connect(ctx, config.RedisAddr(), config.RedisPassword()),
		Audit:         sink,
		Storage:       disks,
		CommitTimeout: config.OrderCommitTimeout(),
		CacheTTL:      config.DashboardCacheTTL(),
		GraphQL:       config.GraphQLEnabled(),
	}
	if config.StorageDefault() == "local" {
		opts.ExportsDir = config.StorageLocalRoot()
	}

	app, err := New(opts)
	if err != nil {
		_ = opts.Cache.Close()
		_ = sink.Close(ctx)
		_ = database.Close(db)
		return nil, err
	}
	return app, nil
}

// OpenAuditSink returns the sink selected by AUDIT_DRIVER.
func OpenAuditSink(ctx context.Context) (audit.Sink, error) {
	switch driver := config.AuditDriver(); driver {
	case "mongo":
		sink, err := audit.NewMongoSink(ctx, config.MongoURI(), config.MongoDatabase(), config.MongoCollection())
		if err != nil {
			return nil, fmt.Errorf("audit: %w", err)
		}
		return sink, nil
	case "none":
		return audit.Discard{}, nil
	default:
		sink, err := audit.NewFileSink(config.AuditLogPath())
		if err != nil {
			return nil, fmt.Errorf("audit: %w", err)
		}
		logger.Debug("audit trail", "driver", driver, "path", config.AuditLogPath())
		return sink, nil
	}
}
