package member

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	clubdb "github.com/fstb-swiss/fstb-admin/app/modules/club/infrastructure/repositories"
	memberservice "github.com/fstb-swiss/fstb-admin/app/modules/member/application"
	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
	"github.com/fstb-swiss/fstb-admin/internal/eventbus"
	"github.com/fstb-swiss/fstb-admin/internal/observability"
)

// Module represents the member module.
type Module struct {
	MemberService *memberservice.MemberService
}

// NewMemberModule creates and initializes a new member module.
func NewMemberModule(
	ctx context.Context,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	eventBus eventbus.EventBus,
	db *bun.DB,
) (*Module, error) {
	logger.InfoContext(ctx, "member.NewMemberModule initializing")

	repo := memberdb.NewRepository(db)
	clubRepo := clubdb.NewRepository(db)
	service := memberservice.NewMemberService(repo, clubRepo, logger, metrics, tracer, db, eventBus)

	return &Module{
		MemberService: service,
	}, nil
}
