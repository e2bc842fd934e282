package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Conn holds exactly one live database connection for the lifetime of a
// unit of work. Repositories borrow DB() for the duration of a call and
// never retain it. Conn is not safe for concurrent use by several units of
// work; open one per unit instead.
type Conn struct {
	db *sql.DB

	closeOnce sync.Once
	closeErr  error
}

// Open opens the database identified by driver/dsn, pins the pool to a
// single connection and verifies it with a ping. Every failure wraps
// common.ErrConnection.
func Open(ctx context.Context, driver, dsn string) (*Conn, error) {
	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConnection, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrConnection, err)
	}

	return &Conn{db: db}, nil
}

// NewConn wraps an already opened handle.
func NewConn(db *sql.DB) *Conn {
	return &Conn{db: db}
}

// DB returns the underlying handle.
func (c *Conn) DB() *sql.DB {
	return c.db
}

// Close releases the handle. It is idempotent: only the first call closes
// the handle and every call returns the first call's result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.db.Close()
	})
	return c.closeErr
}
