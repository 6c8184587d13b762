package memberservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	clubdb "github.com/fstb-swiss/fstb-admin/app/modules/club/infrastructure/repositories"
	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
	"github.com/fstb-swiss/fstb-admin/internal/attr"
	"github.com/fstb-swiss/fstb-admin/internal/eventbus"
	"github.com/fstb-swiss/fstb-admin/internal/observability"
	"github.com/fstb-swiss/fstb-admin/internal/results"
)

// Notification topics emitted by the member service.
const (
	TopicMemberCreated         = "member.created"
	TopicMemberUpdated         = "member.updated"
	TopicMembershipSaved       = "membership.saved"
	TopicMembershipTransferred = "membership.transferred"
	TopicChangeStaged          = "member.change.staged"
	TopicChangeApproved        = "member.change.approved"
	TopicChangeDeclined        = "member.change.declined"
)

// MemberService owns members, memberships and their staged change records:
// the transition engine and the approval/decline state machine.
type MemberService struct {
	repo     memberdb.Repository
	clubRepo clubdb.Repository
	logger   *slog.Logger
	metrics  observability.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB
	eventBus eventbus.EventBus

	// now is swapped in tests to pin transfer dates.
	now func() time.Time
}

// NewMemberService creates a new MemberService.
func NewMemberService(
	repo memberdb.Repository,
	clubRepo clubdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	eventBus eventbus.EventBus,
) *MemberService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &MemberService{
		repo:     repo,
		clubRepo: clubRepo,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
		eventBus: eventBus,
		now:      time.Now,
	}
}

// publishNotification reports an entity change to the notification layer.
// Delivery failures are logged, not returned: the mutation already committed.
func (s *MemberService) publishNotification(ctx context.Context, topic, entity, entityUUID, text string) {
	if s.eventBus == nil {
		return
	}

	msg, err := eventbus.NewNotificationMessage(ctx, eventbus.Notification{
		Entity:  entity,
		UUID:    entityUUID,
		Message: text,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build member notification", attr.ExtractCorrelationID(ctx), attr.Error(err))
		return
	}
	if err := s.eventBus.Publish(topic, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish member notification",
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
	s *MemberService,
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

	s.metrics.RecordOperationAttempt(ctx, operationName, "MemberService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "MemberService", time.Since(startTime))
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
			s.metrics.RecordOperationFailure(ctx, operationName, "MemberService")
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
		s.metrics.RecordOperationFailure(ctx, operationName, "MemberService")
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

	s.metrics.RecordOperationSuccess(ctx, operationName, "MemberService")

	return result, nil
}

// runInTx ensures the operation runs within a transaction. The transition
// engine and the approval cascade perform multi-step writes that must be
// all-or-nothing.
func runInTx[S any, F any](
	s *MemberService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
