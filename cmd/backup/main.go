// Command backup runs pg_dump on a fixed interval and prunes old dumps,
// keeping only the newest few.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/edustack/edu-be/internal/config"
)

const backupPrefix = "backup_"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	db, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dir := envOr("BACKUP_DIR", "backups")
	keep := envIntOr("BACKUP_KEEP", 3)
	interval := time.Duration(envIntOr("BACKUP_INTERVAL_SECONDS", 120)) * time.Second

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("create backup dir: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("backup service started: every %s into %s, keeping %d dumps", interval, dir, keep)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := createBackup(ctx, db.URL, dir); err != nil {
			log.Printf("backup failed: %v", err)
		} else if err := pruneBackups(dir, keep); err != nil {
			log.Printf("prune failed: %v", err)
		}

		select {
		case <-ctx.Done():
			log.Println("backup service stopping")
			return
		case <-ticker.C:
		}
	}
}

func createBackup(ctx context.Context, databaseURL, dir string) error {
	file := filepath.Join(dir, fmt.Sprintf("%s%s.sql", backupPrefix, time.Now().Format("20060102_150405")))

	cmd := exec.CommandContext(ctx, "pg_dump", "--dbname="+databaseURL, "-f", file)
	if out, err := cmd.CombinedOutput(); err != nil {
		// A partial file from a failed dump must not count as a backup.
		os.Remove(file)
		return fmt.Errorf("pg_dump: %w: %s", err, strings.TrimSpace(string(out)))
	}

	log.Printf("backup created: %s", file)
	return nil
}

func pruneBackups(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var dumps []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, ".sql") {
			dumps = append(dumps, name)
		}
	}

	// Timestamped names sort chronologically.
	sort.Strings(dumps)
	for len(dumps) > keep {
		old := filepath.Join(dir, dumps[0])
		if err := os.Remove(old); err != nil {
			return err
		}
		log.Printf("removed old backup: %s", dumps[0])
		dumps = dumps[1:]
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && n > 0 {
		return n
	}
	return def
}
