package router

import (
	"github.com/squadhub/identity-api/internal/application"
	"github.com/squadhub/identity-api/internal/container"
	pginfra "github.com/squadhub/identity-api/internal/infrastructure/postgres"
	handlers "github.com/squadhub/identity-api/internal/interface/http"
	"github.com/squadhub/identity-api/internal/router/modules"
)

// InitModules wires application services from container singletons and
// registers every feature module. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	creds := application.NewCredentialManager()
	tokens := application.NewTokenService(repo, container.GetJWT(), logger)
	directory := application.NewUserDirectory(container.GetES(), cfg.ESUsersIndex, logger)
	accounts := application.NewAccountService(repo, creds, tokens, directory, container.GetRabbitPub(), logger, cfg.MailSendEnabled)
	profiles := application.NewUserProfileUpdater(repo, creds, directory, logger)
	membership := application.NewTeamMembershipManager(repo, logger)

	userHandler := handlers.NewUserHandler(accounts, profiles, directory, logger, cfg.CookieDomain, cfg.CookieSecure)
	teamHandler := handlers.NewTeamHandler(membership, logger)

	r.Add(modules.NewUserModule(userHandler, tokens))
	r.Add(modules.NewTeamModule(teamHandler, tokens))
}
