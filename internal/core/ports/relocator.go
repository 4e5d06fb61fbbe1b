package ports

import (
	"context"

	"go.trai.ch/jarl/internal/core/domain"
)

// Relocator defines the interface for the namespace relocation engine.
//
//go:generate mockgen -source=relocator.go -destination=mocks/mock_relocator.go -package=mocks
type Relocator interface {
	// Relocate rewrites the jar at in according to the rules and writes the
	// result to out. It must not modify the input file.
	Relocate(ctx context.Context, in, out string, rules []domain.Relocation) error
}
