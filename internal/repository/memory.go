package repository

import (
	"context"

	"github.com/deppfellow/go-memories/internal/model"
	"github.com/deppfellow/go-memories/internal/sqlerr"
	"gorm.io/gorm"
)

const memoryTable = "memory"

type MemoryRepository struct {
	db *gorm.DB
}

func NewMemoryRepository(db *gorm.DB) *MemoryRepository {
	return &MemoryRepository{db: db}
}

// List returns every memory ordered by creation time, oldest first.
func (r *MemoryRepository) List(ctx context.Context) ([]model.Memory, error) {
	memories := make([]model.Memory, 0)
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&memories).Error; err != nil {
		return nil, sqlerr.WithTable(memoryTable, err)
	}
	return memories, nil
}

// GetByID returns the memory with id or a not-found error.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*model.Memory, error) {
	var memory model.Memory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&memory).Error; err != nil {
		return nil, sqlerr.WithTable(memoryTable, err)
	}
	return &memory, nil
}

// Create inserts memory. ID and CreatedAt are filled in on success.
func (r *MemoryRepository) Create(ctx context.Context, memory *model.Memory) error {
	if err := r.db.WithContext(ctx).Create(memory).Error; err != nil {
		return sqlerr.WithTable(memoryTable, err)
	}
	return nil
}

// Update overwrites the mutable fields of the memory with id and returns the
// stored row.
func (r *MemoryRepository) Update(ctx context.Context, id string, input model.MemoryInput) (*model.Memory, error) {
	// A map is used so zero values (empty content, false) are written too.
	result := r.db.WithContext(ctx).
		Model(&model.Memory{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"content":   input.Content,
			"cover_url": input.CoverURL,
			"is_public": input.IsPublic,
		})
	if result.Error != nil {
		return nil, sqlerr.WithTable(memoryTable, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, sqlerr.WithTable(memoryTable, gorm.ErrRecordNotFound)
	}

	return r.GetByID(ctx, id)
}

// Delete removes the memory with id.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Memory{})
	if result.Error != nil {
		return sqlerr.WithTable(memoryTable, result.Error)
	}
	if result.RowsAffected == 0 {
		return sqlerr.WithTable(memoryTable, gorm.ErrRecordNotFound)
	}
	return nil
}
