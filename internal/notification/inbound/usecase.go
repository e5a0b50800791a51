package inbound

import (
	"context"

	"github.com/sayetech/dataroom/internal/notification/usecase"
)

type uc interface {
	ConsumeAccessRequestSubmitted(ctx context.Context, in usecase.ConsumeAccessRequestSubmittedInput) error
	ConsumeAccessRequestDecided(ctx context.Context, in usecase.ConsumeAccessRequestDecidedInput) error
}
