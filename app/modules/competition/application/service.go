package competitionservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	competitiondb "github.com/fstb-swiss/fstb-admin/app/modules/competition/infrastructure/repositories"
	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
	"github.com/fstb-swiss/fstb-admin/internal/attr"
	"github.com/fstb-swiss/fstb-admin/internal/eventbus"
	"github.com/fstb-swiss/fstb-admin/internal/observability"
	"github.com/fstb-swiss/fstb-admin/internal/results"
)

// Notification topics emitted by the competition service.
const (
	TopicTeamSaved             = "team.saved"
	TopicCompetitionSaved      = "competition.saved"
	TopicRegistrationEvaluated = "registration.evaluated"
)

// CompetitionService owns teams, competitions and registrations, and runs the
// eligibility evaluator on every registration write.
type CompetitionService struct {
	repo       competitiondb.Repository
	memberRepo memberdb.Repository
	logger     *slog.Logger
	metrics    observability.OperationMetrics
	tracer     trace.Tracer
	db         *bun.DB
	eventBus   eventbus.EventBus

	// now is swapped in tests to pin age calculations.
	now func() time.Time
}

// NewCompetitionService creates a new CompetitionService.
func NewCompetitionService(
	repo competitiondb.Repository,
	memberRepo memberdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	eventBus eventbus.EventBus,
) *CompetitionService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &CompetitionService{
		repo:       repo,
		memberRepo: memberRepo,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
		eventBus:   eventBus,
		now:        time.Now,
	}
}

// publishNotification reports an entity change to the notification layer.
// Delivery failures are logged, not returned: the mutation already committed.
func (s *CompetitionService) publishNotification(ctx context.Context, topic, entity, entityUUID, text string) {
	if s.eventBus == nil {
		return
	}

	msg, err := eventbus.NewNotificationMessage(ctx, eventbus.Notification{
		Entity:  entity,
		UUID:    entityUUID,
		Message: text,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build competition notification", attr.ExtractCorrelationID(ctx), attr.Error(err))
		return
	}
	if err := s.eventBus.Publish(topic, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish competition notification",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *CompetitionService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "CompetitionService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "CompetitionService", time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "CompetitionService")
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "CompetitionService")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, "CompetitionService")

	return result, nil
}

// runInTx ensures the operation runs within a transaction. Registration
// writes evaluate and persist as one unit.
func runInTx[S any, F any](
	s *CompetitionService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	if err != nil {
		return results.OperationResult[S, F]{}, err
	}
	return result, nil
}
