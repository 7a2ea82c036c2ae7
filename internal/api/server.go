package api

import (
	"context"

	"github.com/vytor/studyflash/internal/ratelimit"
	"github.com/vytor/studyflash/internal/repository"
	"github.com/vytor/studyflash/internal/services"
	"github.com/vytor/studyflash/internal/tags"
	"github.com/vytor/studyflash/internal/validation"
)

type Server struct {
	Study       services.StudyService
	Progress    services.ProgressService
	Users       repository.UserRepository
	Tags        *tags.Resolver
	Validator   *validation.Validator
	Limiter     *ratelimit.KeyedRateLimiter
	CORSOrigins []string
	// Ready reports whether storage can serve requests.
	Ready func(ctx context.Context) error
}
