// Command healthmon polls the platform's HTTP health endpoints and the
// database on a fixed interval and prints a consolidated report.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

const probeTimeout = 5 * time.Second

type target struct {
	name string
	url  string
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	targets := parseTargets(os.Getenv("HEALTH_TARGETS"))
	if len(targets) == 0 {
		targets = []target{{name: "backend-api", url: "http://localhost:8080/health"}}
	}
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	interval := time.Duration(envIntOr("HEALTH_INTERVAL_SECONDS", 30)) * time.Second

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("health monitor started: %d targets, every %s", len(targets), interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report(ctx, targets, databaseURL)

		select {
		case <-ctx.Done():
			log.Println("health monitor stopping")
			return
		case <-ticker.C:
		}
	}
}

func report(ctx context.Context, targets []target, databaseURL string) {
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("HEALTH MONITOR REPORT")
	fmt.Println(strings.Repeat("=", 50))

	allHealthy := true
	for _, tgt := range targets {
		ok, msg := checkHTTP(ctx, tgt.url)
		fmt.Printf("%-15s %s\n", tgt.name, msg)
		if !ok {
			allHealthy = false
		}
	}

	if databaseURL != "" {
		ok, msg := checkDatabase(ctx, databaseURL)
		fmt.Printf("%-15s %s\n", "Database", msg)
		if !ok {
			allHealthy = false
		}
	}

	if allHealthy {
		fmt.Println("All services are healthy")
	} else {
		fmt.Println("Some services are unhealthy")
	}
}

func checkHTTP(ctx context.Context, url string) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Sprintf("Error: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, fmt.Sprintf("Connection failed: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return true, "Service is healthy"
}

func checkDatabase(ctx context.Context, databaseURL string) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return false, fmt.Sprintf("Database connection failed: %v", err)
	}
	defer conn.Close(ctx)

	var one int
	if err := conn.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return false, fmt.Sprintf("Database query failed: %v", err)
	}
	return true, "Database is accessible"
}

// parseTargets reads "name=url,name=url" pairs.
func parseTargets(raw string) []target {
	var out []target
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, url, found := strings.Cut(part, "=")
		if !found || strings.TrimSpace(url) == "" {
			log.Printf("ignoring malformed health target %q", part)
			continue
		}
		out = append(out, target{name: strings.TrimSpace(name), url: strings.TrimSpace(url)})
	}
	return out
}

func envIntOr(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && n > 0 {
		return n
	}
	return def
}
