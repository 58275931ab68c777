package service

import (
	"github.com/deppfellow/go-memories/internal/lib/job"
	"github.com/deppfellow/go-memories/internal/repository"
	"github.com/deppfellow/go-memories/internal/server"
)

type Services struct {
	Auth   *AuthService
	Memory *MemoryService
	Job    *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService := NewAuthService(s)

	var enqueuer TaskEnqueuer
	if s.Job != nil {
		enqueuer = s.Job.Client
	}

	return &Services{
		Job:    s.Job,
		Auth:   authService,
		Memory: NewMemoryService(repos.Memory, enqueuer, s.Logger),
	}, nil
}
