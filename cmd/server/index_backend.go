package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"buildgrid.io/internal/persistence/indexdb"
	"buildgrid.io/internal/sim/world"
)

type runtimeIndex interface {
	world.TickLogger
	world.AuditLogger
	Close() error
}

func openRuntimeIndex(worldDir, worldID string, disableDB bool, logger *log.Logger) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("BG_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		dbPath := filepath.Join(worldDir, "index", "world.sqlite")
		return indexdb.OpenSQLite(dbPath)
	case "ingest":
		endpoint := strings.TrimSpace(os.Getenv("BG_INDEX_ENDPOINT"))
		token := strings.TrimSpace(os.Getenv("BG_INDEX_TOKEN"))
		if endpoint == "" {
			return nil, fmt.Errorf("BG_INDEX_BACKEND=ingest but BG_INDEX_ENDPOINT is empty")
		}
		flushMS := envInt("BG_INDEX_FLUSH_MS", 500)
		batchSize := envInt("BG_INDEX_BATCH_SIZE", 128)
		return indexdb.OpenIngest(indexdb.IngestConfig{
			Endpoint:      endpoint,
			Token:         token,
			WorldID:       worldID,
			BatchSize:     batchSize,
			FlushInterval: time.Duration(flushMS) * time.Millisecond,
			Logger:        logger,
		})
	default:
		return nil, fmt.Errorf("unsupported BG_INDEX_BACKEND: %s", backend)
	}
}
