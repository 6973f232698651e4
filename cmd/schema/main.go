// Command schema prints the generated DDL, or applies it to a SQLite file
// when DB_PATH is set. Opening the backend is enough to apply the schema,
// which makes this the way to prepare a database file ahead of first boot.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"collab-server/internal/observability"
	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

func main() {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			log.Printf("Warning: env.local file not found: %v", err)
		}
	}

	path := os.Getenv("DB_PATH")
	if path == "" {
		for _, stmt := range schema.DDL() {
			fmt.Println(stmt + ";")
		}
		return
	}

	logger := observability.NewLogger()
	ctx := context.Background()

	backend, err := storage.OpenSQLite(path, logger)
	if err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	if err := backend.Close(); err != nil {
		log.Fatalf("Failed to close database: %v", err)
	}

	logger.Info(ctx, fmt.Sprintf("schema applied to %s", path))
}
