package repository

import (
	"github.com/deppfellow/go-memories/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Memory *MemoryRepository
}

// NewRepositories constructs the repository container on the server's ORM session.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Memory: NewMemoryRepository(s.DB.ORM),
	}
}
