//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"imagegen-mcp/internal/domain"
	"imagegen-mcp/internal/infrastructure"
	"imagegen-mcp/internal/interfaces"
	"imagegen-mcp/internal/interfaces/httpserver/routes"
)

func CreateApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		domain.DomainProvider,
		infrastructure.InfrastructureProvider,
		routes.RoutesProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
