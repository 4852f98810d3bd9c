package database

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Params carries the connection settings for Open.  Pool knobs fall back to
// sane defaults when left zero so callers only set what they tune.
type Params struct {
	User string
	Pass string
	Host string
	Port string
	Name string

	MaxConns    int           // open and idle connection cap
	MaxLifetime time.Duration // recycle connections after this long
}

// dsn builds the driver DSN.  parseTime maps DATETIME columns onto time.Time
// and loc=UTC keeps every timestamp in one zone.
func (p Params) dsn() string {
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Host, p.Port)
	cfg.DBName = p.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Open connects to MySQL, applies the pool settings and verifies the
// connection before returning.
func Open(ctx context.Context, p Params) (*sql.DB, error) {
	db, err := sql.Open("mysql", p.dsn())
	if err != nil {
		return nil, err
	}

	maxConns := p.MaxConns
	if maxConns <= 0 {
		maxConns = 25
	}
	lifetime := p.MaxLifetime
	if lifetime <= 0 {
		lifetime = 30 * time.Minute
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(lifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
