// migrate aplica las migraciones SQL del directorio dado contra el
// Postgres configurado. Uso: migrate [-config path] [-dir path] [up|down [n]]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/accessway/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	configPath := flag.String("config", "configs/config.example.yaml", "Path to YAML config")
	dir := flag.String("dir", "migrations/postgres", "Directory with *_up.sql / *_down.sql files")
	flag.Parse()

	action, steps, err := parseArgs(flag.Args())
	if err != nil {
		log.Fatal(err)
	}

	files, err := plan(*dir, action, steps)
	if err != nil {
		log.Fatalf("plan: %v", err)
	}
	if len(files) == 0 {
		log.Printf("no %s migrations in %s, nothing to do", action, *dir)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	log.Printf("applying %d %s migration(s)", len(files), action)
	for _, f := range files {
		if err := apply(ctx, pool, f); err != nil {
			log.Fatalf("%s: %v", filepath.Base(f), err)
		}
	}
	log.Printf("%s migrations done", action)
}

// parseArgs interpreta los argumentos posicionales [up|down] [steps].
func parseArgs(args []string) (action string, steps int, err error) {
	action = "up"
	if len(args) >= 1 && args[0] != "" {
		action = strings.ToLower(args[0])
	}
	if action != "up" && action != "down" {
		return "", 0, fmt.Errorf("unknown action %q, use: up | down [steps]", action)
	}
	if len(args) >= 2 {
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil || n <= 0 {
			return "", 0, fmt.Errorf("steps must be a positive integer, got %q", args[1])
		}
		steps = n
	}
	return action, steps, nil
}

// plan lista los archivos a ejecutar, ya ordenados: ups ascendentes,
// downs descendentes (se deshace lo más reciente primero). steps > 0
// recorta a los N primeros del plan.
func plan(dir, action string, steps int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	suffix := "_" + action + ".sql"
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	if action == "down" {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}
	if steps > 0 && steps < len(files) {
		files = files[:steps]
	}
	return files, nil
}

func apply(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	start := time.Now()
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return err
	}
	log.Printf("ok %s (%s)", filepath.Base(path), time.Since(start).Truncate(time.Millisecond))
	return nil
}
