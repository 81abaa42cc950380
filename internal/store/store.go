// Package store provides the SQL persistence layer for storeapi.
//
// It supports MySQL (default) and PostgreSQL, selected by configuration.
// Repositories use plain database/sql with per-dialect placeholders.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Sentinel errors returned by repositories.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Connection check policy: a freshly started database container can take a
// few seconds to accept connections.
const (
	pingAttempts = 5
	pingDelay    = 2 * time.Second
)

// Config holds database connection settings.
type Config struct {
	Driver   string // mysql or postgres
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Params   map[string]string
}

// Store wraps a database connection and its repositories.
type Store struct {
	db      *sql.DB
	dialect string
	logger  *slog.Logger

	Users    *UserStore
	Products *ProductStore
}

// Open connects to the configured database and verifies the connection
// with a bounded ping retry.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	driverName, dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Driver, err)
	}

	logger.Debug("connecting to database",
		slog.String("driver", cfg.Driver),
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Name))

	if err := pingWithRetry(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db, dialect: cfg.Driver, logger: logger}
	s.Users = &UserStore{db: db, dialect: cfg.Driver}
	s.Products = &ProductStore{db: db, dialect: cfg.Driver}
	return s, nil
}

// pingWithRetry pings the database up to pingAttempts times, pingDelay apart.
func pingWithRetry(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			logger.Debug("database connection successful")
			return nil
		}
		if attempt == pingAttempts {
			break
		}
		logger.Warn("database ping failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", pingDelay),
			slog.Any("error", err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pingDelay):
		}
	}
	return err
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the SQL dialect in use (mysql or postgres).
func (s *Store) Dialect() string { return s.dialect }

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// buildDSN returns the sql driver name and DSN for the configured database.
func buildDSN(cfg Config) (string, string, error) {
	switch cfg.Driver {
	case "mysql":
		return "mysql", buildMySQLDSN(cfg), nil
	case "postgres":
		return "pgx", buildPostgresDSN(cfg), nil
	default:
		return "", "", fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

func buildMySQLDSN(cfg Config) string {
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, port)
	mc.DBName = cfg.Name
	mc.ParseTime = true
	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

func buildPostgresDSN(cfg Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Params != nil {
		if mode, ok := cfg.Params["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, cfg.Name, sslmode)
	if cfg.User != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.User)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	return dsn
}

// IsDuplicate reports whether err is a unique-constraint violation from
// either supported driver.
func IsDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, ErrDuplicate)
}

// rebind converts ? placeholders to $n for postgres. MySQL queries pass
// through unchanged.
func rebind(dialect, query string) string {
	if dialect != "postgres" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
