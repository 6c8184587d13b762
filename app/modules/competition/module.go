package competition

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	competitionservice "github.com/fstb-swiss/fstb-admin/app/modules/competition/application"
	competitiondb "github.com/fstb-swiss/fstb-admin/app/modules/competition/infrastructure/repositories"
	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
	"github.com/fstb-swiss/fstb-admin/internal/eventbus"
	"github.com/fstb-swiss/fstb-admin/internal/observability"
)

// Module represents the competition module.
type Module struct {
	CompetitionService *competitionservice.CompetitionService
}

// NewCompetitionModule creates and initializes a new competition module.
func NewCompetitionModule(
	ctx context.Context,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	eventBus eventbus.EventBus,
	db *bun.DB,
) (*Module, error) {
	logger.InfoContext(ctx, "competition.NewCompetitionModule initializing")

	repo := competitiondb.NewRepository(db)
	memberRepo := memberdb.NewRepository(db)
	service := competitionservice.NewCompetitionService(repo, memberRepo, logger, metrics, tracer, db, eventBus)

	return &Module{
		CompetitionService: service,
	}, nil
}
