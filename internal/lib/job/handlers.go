package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/deppfellow/go-memories/internal/config"
	"github.com/deppfellow/go-memories/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Mailer sends the notification emails tasks produce.
type Mailer interface {
	SendMemoryPublishedEmail(ctx context.Context, to, firstName, memoryID, excerpt string) error
}

// Recipient is where a user's notifications go.
type Recipient struct {
	Email     string
	FirstName string
}

// UserDirectory resolves a user id to a Recipient.
type UserDirectory interface {
	Lookup(ctx context.Context, userID string) (Recipient, error)
}

// InitHandlers wires the dependencies task handlers need: a Resend mailer
// and the Clerk user directory.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.SetHandlerDeps(email.NewClient(cfg, logger), ClerkDirectory{})
}

// SetHandlerDeps replaces the handler dependencies.
func (j *JobService) SetHandlerDeps(mailer Mailer, users UserDirectory) {
	j.mailer = mailer
	j.users = users
}

// ClerkDirectory looks users up through the Clerk backend API. The API key
// is the one set with clerk.SetKey.
type ClerkDirectory struct{}

func (ClerkDirectory) Lookup(ctx context.Context, userID string) (Recipient, error) {
	u, err := user.Get(ctx, userID)
	if err != nil {
		return Recipient{}, fmt.Errorf("failed to get clerk user %s: %w", userID, err)
	}

	var r Recipient
	if u.FirstName != nil {
		r.FirstName = *u.FirstName
	}
	for _, addr := range u.EmailAddresses {
		if addr == nil {
			continue
		}
		if u.PrimaryEmailAddressID != nil && addr.ID == *u.PrimaryEmailAddressID {
			r.Email = addr.EmailAddress
			break
		}
		if r.Email == "" {
			r.Email = addr.EmailAddress
		}
	}
	if r.Email == "" {
		return Recipient{}, fmt.Errorf("clerk user %s has no email address", userID)
	}
	return r, nil
}

func (j *JobService) handleMemoryPublishedTask(ctx context.Context, t *asynq.Task) error {
	var p MemoryPublishedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A malformed payload will never succeed.
		return fmt.Errorf("failed to unmarshal memory published payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", TaskMemoryPublished).
		Str("memory_id", p.MemoryID).
		Str("user_id", p.UserID).
		Logger()

	logger.Info().Msg("Processing memory published task")

	if j.mailer == nil || j.users == nil {
		return fmt.Errorf("job handlers not initialized")
	}

	recipient, err := j.users.Lookup(ctx, p.UserID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resolve memory owner")
		return err
	}

	if err := j.mailer.SendMemoryPublishedEmail(ctx, recipient.Email, recipient.FirstName, p.MemoryID, p.Excerpt); err != nil {
		logger.Error().Err(err).Msg("Failed to send memory published email")
		return err
	}

	logger.Info().Msg("Successfully sent memory published email")
	return nil
}
