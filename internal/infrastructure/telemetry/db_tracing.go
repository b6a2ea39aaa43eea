package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultSlowQueryThreshold = 200 * time.Millisecond
	queryStartedKey           = "telemetry:query_started"
)

// InstrumentDB registers otelgorm on db so every statement gets a client
// span, and annotates those spans with row counts and a slow-query mark.
// It does nothing unless tracing is enabled.
func InstrumentDB(db *gorm.DB, cfg config.TelemetryConfig, dbName string, logger *zap.Logger, opts ...otelgorm.Option) error {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts = append([]otelgorm.Option{otelgorm.WithDBName(dbName)}, opts...)
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to register otelgorm: %w", err)
	}

	threshold := cfg.DBSlowQueryThreshold
	if threshold <= 0 {
		threshold = defaultSlowQueryThreshold
	}
	start := func(tx *gorm.DB) { tx.InstanceSet(queryStartedKey, time.Now()) }
	annotate := func(tx *gorm.DB) { annotateQuerySpan(tx, threshold) }

	// otelgorm ends its span in otel:after:<op>, so annotations run first
	cb := db.Callback()
	err := errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:start_create", start),
		cb.Query().Before("gorm:query").Register("telemetry:start_query", start),
		cb.Row().Before("gorm:row").Register("telemetry:start_row", start),
		cb.Raw().Before("gorm:raw").Register("telemetry:start_raw", start),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("telemetry:annotate_create", annotate),
		cb.Query().After("gorm:query").Before("otel:after:query").Register("telemetry:annotate_query", annotate),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("telemetry:annotate_row", annotate),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("telemetry:annotate_raw", annotate),
	)
	if err != nil {
		return fmt.Errorf("failed to register query span callbacks: %w", err)
	}

	logger.Info("Database tracing enabled",
		zap.Bool("full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", threshold),
	)
	return nil
}

func annotateQuerySpan(tx *gorm.DB, threshold time.Duration) {
	if tx.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(tx.Statement.Context)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		RecordError(span, tx.Error)
	}

	v, ok := tx.InstanceGet(queryStartedKey)
	if !ok {
		return
	}
	started, ok := v.(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(started); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
