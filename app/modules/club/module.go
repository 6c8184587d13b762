package club

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	clubservice "github.com/fstb-swiss/fstb-admin/app/modules/club/application"
	clubdb "github.com/fstb-swiss/fstb-admin/app/modules/club/infrastructure/repositories"
	"github.com/fstb-swiss/fstb-admin/internal/eventbus"
	"github.com/fstb-swiss/fstb-admin/internal/observability"
)

// Module represents the club module.
type Module struct {
	ClubService *clubservice.ClubService
}

// NewClubModule creates and initializes a new club module.
func NewClubModule(
	ctx context.Context,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	eventBus eventbus.EventBus,
	db *bun.DB,
) (*Module, error) {
	logger.InfoContext(ctx, "club.NewClubModule initializing")

	repo := clubdb.NewRepository(db)
	service := clubservice.NewClubService(repo, logger, metrics, tracer, db, eventBus)

	return &Module{
		ClubService: service,
	}, nil
}
