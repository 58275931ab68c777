package router

import (
	"net/http"

	"github.com/deppfellow/go-memories/internal/handler"
	"github.com/labstack/echo/v4"
)

// RegisterMemoryRoutes mounts the memories resource on g. g is expected to
// carry the auth middleware.
func RegisterMemoryRoutes(g *echo.Group, h *handler.MemoryHandler) {
	g.GET("", handler.Handle(h.Handler, h.ListMemories, http.StatusOK, &handler.ListMemoriesRequest{}))
	g.POST("", handler.Handle(h.Handler, h.CreateMemory, http.StatusOK, &handler.CreateMemoryRequest{}))
	g.GET("/:id", handler.Handle(h.Handler, h.GetMemory, http.StatusOK, &handler.GetMemoryRequest{}))
	g.PUT("/:id", handler.Handle(h.Handler, h.UpdateMemory, http.StatusOK, &handler.UpdateMemoryRequest{}))
	g.DELETE("/:id", handler.HandleNoContent(h.Handler, h.DeleteMemory, http.StatusOK, &handler.DeleteMemoryRequest{}))
}
