package commands

import (
	"context"
	"errors"
	"fmt"

	courier_errors "courier-chat/pkg/errors"
	"courier-chat/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pipeline runs every public operation through the same ordered chain:
// validate, execute, then log and translate whatever came out. It is plain
// function composition; handlers stay free of cross-cutting concerns.
type Pipeline struct {
	log *logger.Logger
}

func NewPipeline(log *logger.Logger) *Pipeline {
	return &Pipeline{log: log}
}

// InternalError is a failure scrubbed of its cause. Clients get the wire code
// and correlation id only; the detail stays in the server log.
type InternalError struct {
	Code          string
	CorrelationID string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error (correlation id %s)", e.CorrelationID)
}

// Execute runs cmd's handler behind the validation and translation chain.
func Execute[T any](ctx context.Context, p *Pipeline, cmd Command, fn func(context.Context) (T, error)) (result T, err error) {
	var zero T

	if err := cmd.Validate(); err != nil {
		p.log.Warn(ctx, "command rejected",
			zap.String("command", cmd.Name()),
			zap.String("reason", err.Error()))
		return zero, err
	}

	defer func() {
		if r := recover(); r != nil {
			result = zero
			err = p.scrub(ctx, cmd, "INTERNAL_ERROR", fmt.Errorf("panic: %v", r))
		}
	}()

	result, err = fn(ctx)
	if err != nil {
		return zero, p.translate(ctx, cmd, err)
	}

	p.log.Info(ctx, "command executed", zap.String("command", cmd.Name()))
	return result, nil
}

func (p *Pipeline) translate(ctx context.Context, cmd Command, err error) error {
	switch {
	case errors.Is(err, courier_errors.ErrUnauthenticated),
		errors.Is(err, courier_errors.ErrInvalidInput),
		errors.Is(err, courier_errors.ErrNotFound),
		errors.Is(err, courier_errors.ErrForbidden):
		p.log.Warn(ctx, "command failed",
			zap.String("command", cmd.Name()),
			zap.String("reason", err.Error()))
		return err
	case errors.Is(err, courier_errors.ErrStoreFailure):
		return p.scrub(ctx, cmd, "STORE_FAILURE", err)
	default:
		return p.scrub(ctx, cmd, "INTERNAL_ERROR", err)
	}
}

func (p *Pipeline) scrub(ctx context.Context, cmd Command, code string, err error) error {
	id := uuid.New().String()
	p.log.Error(ctx, "command failed",
		zap.String("command", cmd.Name()),
		zap.String("correlation_id", id),
		zap.Error(err))
	return &InternalError{Code: code, CorrelationID: id}
}

// CodeOf maps an error to its wire code.
func CodeOf(err error) string {
	var internal *InternalError
	if errors.As(err, &internal) && internal.Code != "" {
		return internal.Code
	}
	switch {
	case errors.Is(err, courier_errors.ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, courier_errors.ErrInvalidInput):
		return "VALIDATION_ERROR"
	case errors.Is(err, courier_errors.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, courier_errors.ErrForbidden):
		return "FORBIDDEN"
	default:
		return "INTERNAL_ERROR"
	}
}
