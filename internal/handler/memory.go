package handler

import (
	"strings"

	"github.com/deppfellow/go-memories/internal/errs"
	"github.com/deppfellow/go-memories/internal/middleware"
	"github.com/deppfellow/go-memories/internal/model"
	"github.com/deppfellow/go-memories/internal/server"
	"github.com/deppfellow/go-memories/internal/service"
	"github.com/deppfellow/go-memories/internal/validation"
	"github.com/labstack/echo/v4"
)

type MemoryHandler struct {
	Handler
	memories *service.MemoryService
}

func NewMemoryHandler(s *server.Server, memories *service.MemoryService) *MemoryHandler {
	return &MemoryHandler{
		Handler:  NewHandler(s),
		memories: memories,
	}
}

// MemoryBody is the writable part of a memory. content and coverUrl must be
// present as strings, empty allowed; isPublic is coerced by truthiness.
type MemoryBody struct {
	Content  *string                `json:"content" validate:"required"`
	CoverURL *string                `json:"coverUrl" validate:"required"`
	IsPublic validation.CoercedBool `json:"isPublic"`
}

func (b *MemoryBody) input() model.MemoryInput {
	var in model.MemoryInput
	if b.Content != nil {
		in.Content = *b.Content
	}
	if b.CoverURL != nil {
		in.CoverURL = *b.CoverURL
	}
	in.IsPublic = b.IsPublic.Bool()
	return in
}

type ListMemoriesRequest struct{}

func (r *ListMemoriesRequest) Validate() error {
	return nil
}

type GetMemoryRequest struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
}

func (r *GetMemoryRequest) Validate() error {
	return validation.Struct(r)
}

type CreateMemoryRequest struct {
	MemoryBody
}

func (r *CreateMemoryRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateMemoryRequest struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
	MemoryBody
}

func (r *UpdateMemoryRequest) Validate() error {
	return validation.Struct(r)
}

type DeleteMemoryRequest struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
}

func (r *DeleteMemoryRequest) Validate() error {
	return validation.Struct(r)
}

// caller returns the authenticated subject set by RequireAuth.
func caller(c echo.Context) (string, error) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return "", errs.NewUnauthorizedError("Unauthorized", false)
	}
	return userID, nil
}

// memoryID canonicalizes a validated path id. Ids are stored lowercase.
func memoryID(id string) string {
	return strings.ToLower(id)
}

func (h *MemoryHandler) ListMemories(c echo.Context, req *ListMemoriesRequest) ([]model.MemorySummary, error) {
	return h.memories.ListMemories(c.Request().Context())
}

func (h *MemoryHandler) GetMemory(c echo.Context, req *GetMemoryRequest) (*model.Memory, error) {
	return h.memories.GetMemory(c.Request().Context(), memoryID(req.ID))
}

func (h *MemoryHandler) CreateMemory(c echo.Context, req *CreateMemoryRequest) (*model.Memory, error) {
	userID, err := caller(c)
	if err != nil {
		return nil, err
	}
	return h.memories.CreateMemory(c.Request().Context(), userID, req.input())
}

func (h *MemoryHandler) UpdateMemory(c echo.Context, req *UpdateMemoryRequest) (*model.Memory, error) {
	userID, err := caller(c)
	if err != nil {
		return nil, err
	}
	return h.memories.UpdateMemory(c.Request().Context(), userID, memoryID(req.ID), req.input())
}

func (h *MemoryHandler) DeleteMemory(c echo.Context, req *DeleteMemoryRequest) error {
	userID, err := caller(c)
	if err != nil {
		return err
	}
	return h.memories.DeleteMemory(c.Request().Context(), userID, memoryID(req.ID))
}
