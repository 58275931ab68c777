package service

import (
	"context"
	"errors"

	"github.com/deppfellow/go-memories/internal/errs"
	"github.com/deppfellow/go-memories/internal/lib/job"
	"github.com/deppfellow/go-memories/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// MemoryRepository is the persistence the memory service needs.
type MemoryRepository interface {
	List(ctx context.Context) ([]model.Memory, error)
	GetByID(ctx context.Context, id string) (*model.Memory, error)
	Create(ctx context.Context, memory *model.Memory) error
	Update(ctx context.Context, id string, input model.MemoryInput) (*model.Memory, error)
	Delete(ctx context.Context, id string) error
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type MemoryService struct {
	repo   MemoryRepository
	tasks  TaskEnqueuer
	logger *zerolog.Logger
}

// NewMemoryService builds the service. tasks may be nil, in which case no
// publish notifications are scheduled.
func NewMemoryService(repo MemoryRepository, tasks TaskEnqueuer, logger *zerolog.Logger) *MemoryService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &MemoryService{
		repo:   repo,
		tasks:  tasks,
		logger: logger,
	}
}

// ListMemories returns every memory, oldest first, in list form.
func (s *MemoryService) ListMemories(ctx context.Context) ([]model.MemorySummary, error) {
	memories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.MemorySummary, 0, len(memories))
	for i := range memories {
		summaries = append(summaries, memories[i].Summary())
	}
	return summaries, nil
}

func (s *MemoryService) GetMemory(ctx context.Context, id string) (*model.Memory, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateMemory stores a new memory owned by ownerID.
func (s *MemoryService) CreateMemory(ctx context.Context, ownerID string, input model.MemoryInput) (*model.Memory, error) {
	if ownerID == "" {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	memory := &model.Memory{
		UserID:   ownerID,
		Content:  input.Content,
		CoverURL: input.CoverURL,
		IsPublic: input.IsPublic,
	}
	if err := s.repo.Create(ctx, memory); err != nil {
		return nil, err
	}

	if memory.IsPublic {
		s.notifyPublished(ctx, memory)
	}
	return memory, nil
}

// UpdateMemory overwrites content, coverUrl and isPublic of a memory owned by callerID.
func (s *MemoryService) UpdateMemory(ctx context.Context, callerID, id string, input model.MemoryInput) (*model.Memory, error) {
	current, err := s.authorizeOwner(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	if !current.IsPublic && updated.IsPublic {
		s.notifyPublished(ctx, updated)
	}
	return updated, nil
}

// DeleteMemory removes a memory owned by callerID.
func (s *MemoryService) DeleteMemory(ctx context.Context, callerID, id string) error {
	if _, err := s.authorizeOwner(ctx, callerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// authorizeOwner loads the memory and fails with a body-less 401 unless
// callerID owns it. A missing memory surfaces as not found.
func (s *MemoryService) authorizeOwner(ctx context.Context, callerID, id string) (*model.Memory, error) {
	memory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !memory.OwnedBy(callerID) {
		s.log(ctx).Warn().
			Str("memory_id", id).
			Str("caller_id", callerID).
			Msg("caller does not own memory")
		return nil, errs.NewOwnershipError()
	}
	return memory, nil
}

// notifyPublished schedules the publish notification. Failures are logged
// and never fail the request that triggered them.
func (s *MemoryService) notifyPublished(ctx context.Context, memory *model.Memory) {
	if s.tasks == nil {
		return
	}

	logger := s.log(ctx).With().Str("memory_id", memory.ID).Logger()

	task, err := job.NewMemoryPublishedTask(memory.ID, memory.UserID, model.Excerpt(memory.Content))
	if err != nil {
		logger.Error().Err(err).Msg("failed to build memory published task")
		return
	}

	info, err := s.tasks.EnqueueContext(ctx, task)
	switch {
	case errors.Is(err, asynq.ErrTaskIDConflict), errors.Is(err, asynq.ErrDuplicateTask):
		logger.Debug().Msg("memory published task already scheduled")
	case err != nil:
		logger.Error().Err(err).Msg("failed to enqueue memory published task")
	default:
		logger.Info().Str("task_id", info.ID).Str("queue", info.Queue).Msg("enqueued memory published task")
	}
}

// log prefers the request-scoped logger carried by ctx.
func (s *MemoryService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}
