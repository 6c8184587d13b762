package clubservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	clubdb "github.com/fstb-swiss/fstb-admin/app/modules/club/infrastructure/repositories"
	"github.com/fstb-swiss/fstb-admin/internal/attr"
	"github.com/fstb-swiss/fstb-admin/internal/eventbus"
	"github.com/fstb-swiss/fstb-admin/internal/observability"
	"github.com/fstb-swiss/fstb-admin/internal/results"
)

// Notification topics emitted by the club service.
const (
	TopicClubCreated = "club.created"
	TopicClubUpdated = "club.updated"
)

// ClubService implements the Service interface.
type ClubService struct {
	repo     clubdb.Repository
	logger   *slog.Logger
	metrics  observability.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB
	eventBus eventbus.EventBus
}

// NewClubService creates a new ClubService.
func NewClubService(
	repo clubdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	eventBus eventbus.EventBus,
) *ClubService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &ClubService{
		repo:     repo,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
		eventBus: eventBus,
	}
}

// GetClub retrieves a club by UUID.
func (s *ClubService) GetClub(ctx context.Context, clubUUID uuid.UUID) (*clubdb.Club, error) {
	getClubTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*clubdb.Club, error], error) {
		club, err := s.repo.GetByUUID(ctx, db, clubUUID)
		if err != nil {
			if errors.Is(err, clubdb.ErrNotFound) {
				return results.FailureResult[*clubdb.Club, error](err), nil
			}
			return results.OperationResult[*clubdb.Club, error]{}, fmt.Errorf("failed to get club: %w", err)
		}
		return results.SuccessResult[*clubdb.Club, error](club), nil
	}

	result, err := withTelemetry(s, ctx, "GetClub", clubUUID.String(), func(ctx context.Context) (results.OperationResult[*clubdb.Club, error], error) {
		return runInTx(s, ctx, getClubTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// ListClubs retrieves all clubs ordered by license number.
func (s *ClubService) ListClubs(ctx context.Context) ([]*clubdb.Club, error) {
	listTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]*clubdb.Club, error], error) {
		clubs, err := s.repo.List(ctx, db)
		if err != nil {
			return results.OperationResult[[]*clubdb.Club, error]{}, fmt.Errorf("failed to list clubs: %w", err)
		}
		return results.SuccessResult[[]*clubdb.Club, error](clubs), nil
	}

	result, err := withTelemetry(s, ctx, "ListClubs", "", func(ctx context.Context) (results.OperationResult[[]*clubdb.Club, error], error) {
		return runInTx(s, ctx, listTx)
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

// CreateClub registers a new club under the given license number. The store's
// unique index on license_no is the final guard against duplicates; a clash
// surfaces as clubdb.ErrDuplicateLicense.
func (s *ClubService) CreateClub(ctx context.Context, name string, affiliationYear, licenseNo int) (*clubdb.Club, error) {
	createTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*clubdb.Club, error], error) {
		return s.createClubLogic(ctx, db, name, affiliationYear, licenseNo)
	}

	result, err := withTelemetry(s, ctx, "CreateClub", name, func(ctx context.Context) (results.OperationResult[*clubdb.Club, error], error) {
		return runInTx(s, ctx, createTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	club := *result.Success
	s.publishNotification(ctx, TopicClubCreated, club, "Club added")
	return club, nil
}

func (s *ClubService) createClubLogic(ctx context.Context, db bun.IDB, name string, affiliationYear, licenseNo int) (results.OperationResult[*clubdb.Club, error], error) {
	if licenseNo < 1 || licenseNo > clubdb.MaxLicenseNo {
		return results.FailureResult[*clubdb.Club, error](fmt.Errorf("club license number %d out of range [1,%d]", licenseNo, clubdb.MaxLicenseNo)), nil
	}

	club := &clubdb.Club{
		UUID:            uuid.New(),
		Name:            name,
		LicenseNo:       licenseNo,
		AffiliationYear: affiliationYear,
	}
	if err := s.repo.Create(ctx, db, club); err != nil {
		if errors.Is(err, clubdb.ErrDuplicateLicense) {
			return results.FailureResult[*clubdb.Club, error](err), nil
		}
		return results.OperationResult[*clubdb.Club, error]{}, fmt.Errorf("failed to create club: %w", err)
	}
	return results.SuccessResult[*clubdb.Club, error](club), nil
}

// UpdateClub persists changes to an existing club's mutable fields. The license
// number is immutable once assigned.
func (s *ClubService) UpdateClub(ctx context.Context, club *clubdb.Club) (*clubdb.Club, error) {
	updateTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*clubdb.Club, error], error) {
		existing, err := s.repo.GetByUUID(ctx, db, club.UUID)
		if err != nil {
			if errors.Is(err, clubdb.ErrNotFound) {
				return results.FailureResult[*clubdb.Club, error](err), nil
			}
			return results.OperationResult[*clubdb.Club, error]{}, fmt.Errorf("failed to get club: %w", err)
		}

		existing.Name = club.Name
		existing.AffiliationYear = club.AffiliationYear
		existing.DischargeDate = club.DischargeDate
		existing.PossibleResumeDate = club.PossibleResumeDate

		if err := s.repo.Update(ctx, db, existing); err != nil {
			return results.OperationResult[*clubdb.Club, error]{}, fmt.Errorf("failed to update club: %w", err)
		}
		return results.SuccessResult[*clubdb.Club, error](existing), nil
	}

	result, err := withTelemetry(s, ctx, "UpdateClub", club.UUID.String(), func(ctx context.Context) (results.OperationResult[*clubdb.Club, error], error) {
		return runInTx(s, ctx, updateTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	updated := *result.Success
	s.publishNotification(ctx, TopicClubUpdated, updated, "Club updated")
	return updated, nil
}

// publishNotification reports an entity change to the notification layer.
// Delivery failures are logged, not returned: the mutation already committed.
func (s *ClubService) publishNotification(ctx context.Context, topic string, club *clubdb.Club, text string) {
	if s.eventBus == nil {
		return
	}

	msg, err := eventbus.NewNotificationMessage(ctx, eventbus.Notification{
		Entity:  "Club",
		UUID:    club.UUID.String(),
		Message: text,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build club notification", attr.ExtractCorrelationID(ctx), attr.Error(err))
		return
	}
	if err := s.eventBus.Publish(topic, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish club notification",
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
	s *ClubService,
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

	s.metrics.RecordOperationAttempt(ctx, operationName, "ClubService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "ClubService", time.Since(startTime))
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
			s.metrics.RecordOperationFailure(ctx, operationName, "ClubService")
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
		s.metrics.RecordOperationFailure(ctx, operationName, "ClubService")
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

	s.metrics.RecordOperationSuccess(ctx, operationName, "ClubService")

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *ClubService,
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

	return result, err
}
