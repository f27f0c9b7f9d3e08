// Package db wires repository implementations to a storage backend behind
// the RepositoryManager interface.
package db

import (
	"context"
	"database/sql"

	"telefeed/internal/server/messages"
	"telefeed/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Messages() messages.Repository
}
