package db

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"assettracker/pkg/config"
)

//go:embed schema.sql
var embeddedSchema string

// Connect opens and pings the pool, then applies the schema unless the
// config disables it.
func Connect(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB config: %w", err)
	}

	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns
	poolCfg.MaxConnIdleTime = cfg.DBMaxConnIdle

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	log.Info("connected to PostgreSQL")

	if cfg.ApplySchema {
		schemaCtx, cancelSchema := context.WithTimeout(ctx, 30*time.Second)
		defer cancelSchema()
		if err := ApplySchema(schemaCtx, pool, cfg.SchemaPath); err != nil {
			pool.Close()
			return nil, err
		}
		log.WithField("schema", schemaSource(cfg.SchemaPath)).Info("schema applied")
	}

	return pool, nil
}

// ApplySchema executes the schema at path, or the embedded schema.sql when
// path is empty.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool, path string) error {
	schema := embeddedSchema
	if path != "" {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read schema file: %w", err)
		}
		schema = string(bytes)
	}

	sql := strings.TrimSpace(schema)
	if sql == "" {
		return fmt.Errorf("schema is empty: %s", schemaSource(path))
	}

	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

func schemaSource(path string) string {
	if path == "" {
		return "embedded schema.sql"
	}
	return path
}
