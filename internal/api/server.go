package api

import (
	"context"

	"github.com/vytor/dailyenglish/internal/services"
)

type Server struct {
	Sessions services.SessionService
	Progress services.ProgressService
	// Ready reports whether the remote backend can take traffic. Nil means
	// the server has no remote dependency.
	Ready func(ctx context.Context) error
}
