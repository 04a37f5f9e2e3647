package domain

import (
	"github.com/google/wire"

	"imagegen-mcp/internal/domain/generation"
)

// DomainProvider provides all domain services
var DomainProvider = wire.NewSet(
	generation.NewService,
)
