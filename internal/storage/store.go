package storage

import (
	"context"

	"aureservoir/internal/model"
)

// Store defines persistence operations for network snapshots.
type Store interface {
	Init(ctx context.Context) error
	SaveNetwork(ctx context.Context, snapshot model.NetworkSnapshot) error
	GetNetwork(ctx context.Context, id string) (model.NetworkSnapshot, bool, error)
	ListNetworks(ctx context.Context) ([]string, error)
	DeleteNetwork(ctx context.Context, id string) error
}
