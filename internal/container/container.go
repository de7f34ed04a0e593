package container

import (
	"database/sql"

	"divemanager/internal/assets"
	"divemanager/internal/custody"
	"divemanager/internal/dashboard"
	"divemanager/internal/issues"
	"divemanager/internal/movements"
	"divemanager/internal/repository"
	"divemanager/internal/tags"
	"divemanager/internal/users"

	"go.uber.org/zap"
)

type Container struct {
	Repository       *repository.Repository
	AssetsHandler    *assets.AssetsHandler
	UsersHandler     *users.UsersHandler
	MovementsHandler *movements.MovementsHandler
	IssuesHandler    *issues.IssuesHandler
	CustodyHandler   *custody.CustodyHandler
	TagsHandler      *tags.TagsHandler
	DashboardHandler *dashboard.DashboardHandler
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	assetRepo := assets.NewRepository(repo)
	userRepo := users.NewRepository(repo)
	movementRepo := movements.NewRepository(repo)
	issueRepo := issues.NewRepository(repo)

	custodyService := custody.NewService(repo, assetRepo, userRepo, movementRepo, issueRepo, log)
	tagResolver := tags.NewResolver(assetRepo, userRepo)

	return &Container{
		Repository:       repo,
		AssetsHandler:    assets.NewHandler(assetRepo, log),
		UsersHandler:     users.NewHandler(userRepo, log),
		MovementsHandler: movements.NewHandler(movementRepo, log),
		IssuesHandler:    issues.NewHandler(issueRepo, log),
		CustodyHandler:   custody.NewHandler(custodyService, log),
		TagsHandler:      tags.NewHandler(tagResolver, log),
		DashboardHandler: dashboard.NewHandler(assetRepo, userRepo, movementRepo, issueRepo, log),
	}
}
