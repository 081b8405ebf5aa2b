// Command initdb prepares a fresh environment: it waits for Postgres,
// creates the target database when absent, applies the schema, and seeds
// sample accounts and courses. Safe to run repeatedly.
package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/edustack/edu-be/internal/bootstrap"
	"github.com/edustack/edu-be/internal/config"
	"github.com/edustack/edu-be/internal/storage/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	db, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	dbName, adminURL, err := splitDatabaseURL(db.URL)
	if err != nil {
		log.Fatalf("parse DATABASE_URL: %v", err)
	}

	log.Println("waiting for database server...")
	err = bootstrap.WaitFor(ctx, db.ConnectAttempts, db.ConnectDelay, func(ctx context.Context) error {
		conn, err := pgx.Connect(ctx, adminURL)
		if err != nil {
			return err
		}
		return conn.Close(ctx)
	})
	if err != nil {
		log.Fatalf("database server not available: %v", err)
	}

	if err := ensureDatabase(ctx, adminURL, dbName); err != nil {
		log.Fatalf("create database: %v", err)
	}

	store, err := postgres.NewStore(ctx, db.URL, db.ConnectAttempts, db.ConnectDelay)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}
	defer store.Close()

	if err := store.Seed(ctx); err != nil {
		log.Fatalf("seed sample data: %v", err)
	}

	log.Printf("database %q is ready", dbName)
}

// splitDatabaseURL returns the target database name and a URL pointing at
// the maintenance database on the same server.
func splitDatabaseURL(databaseURL string) (string, string, error) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", "", err
	}
	dbName := strings.TrimPrefix(parsed.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("database url %q names no database", databaseURL)
	}
	parsed.Path = "/postgres"
	return dbName, parsed.String(), nil
}

func ensureDatabase(ctx context.Context, adminURL, dbName string) error {
	conn, err := pgx.Connect(ctx, adminURL)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1)`, dbName,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("database %q already exists", dbName)
		return nil
	}

	log.Printf("creating database %q...", dbName)
	// CREATE DATABASE cannot take bind parameters; the name comes from our
	// own configuration, quoted as an identifier.
	_, err = conn.Exec(ctx, fmt.Sprintf(`CREATE DATABASE %s`, pgx.Identifier{dbName}.Sanitize()))
	return err
}
