package handler

import (
	"github.com/deppfellow/go-memories/internal/server"
	"github.com/deppfellow/go-memories/internal/service"
)

// Handlers groups all HTTP handlers so the router takes a single value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Memory  *MemoryHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Memory:  NewMemoryHandler(s, services.Memory),
	}
}
