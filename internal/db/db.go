// Package db provides the local durable key-value store.
package db

import (
	"database/sql"

	"github.com/rs/zerolog"
)

type Db interface {
	InitDb() error

	Get() *sql.DB
	Close() error

	Query(query string, args ...interface{}) (*sql.Rows, error)
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// KV stores opaque values under string keys. Put overwrites wholesale.
type KV interface {
	Put(key string, value []byte) error
	Load(key string) (value []byte, found bool, err error)
	Delete(key string) error
}

var dbLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	dbLogger = l
}
