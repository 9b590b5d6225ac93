// Package aureservoir wires the network core to its persistence backends: a
// small client facade over the snapshot store, plus generic helpers that
// move whole networks in and out of it.
package aureservoir

import (
	"context"
	"errors"

	"golang.org/x/exp/constraints"

	"aureservoir/internal/model"
	"aureservoir/internal/storage"
	"aureservoir/pkg/esn"
)

const defaultDBPath = "aureservoir.db"

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// SaveNetwork persists a snapshot under its ID.
func (c *Client) SaveNetwork(ctx context.Context, snapshot model.NetworkSnapshot) error {
	if snapshot.ID == "" {
		return errors.New("snapshot id is required")
	}
	return c.store.SaveNetwork(ctx, snapshot)
}

// Network returns the snapshot stored under id, reporting whether one
// exists.
func (c *Client) Network(ctx context.Context, id string) (model.NetworkSnapshot, bool, error) {
	return c.store.GetNetwork(ctx, id)
}

// Networks lists the stored snapshot IDs in sorted order.
func (c *Client) Networks(ctx context.Context) ([]string, error) {
	return c.store.ListNetworks(ctx)
}

// DeleteNetwork removes the snapshot stored under id. Missing IDs are not
// an error.
func (c *Client) DeleteNetwork(ctx context.Context, id string) error {
	return c.store.DeleteNetwork(ctx, id)
}

// Save snapshots net and persists it under id through the client's store.
func Save[F constraints.Float](ctx context.Context, c *Client, id string, net *esn.Network[F]) error {
	snapshot, err := net.Snapshot(id)
	if err != nil {
		return err
	}
	return c.SaveNetwork(ctx, snapshot)
}

// Load reconstructs the network stored under id, reporting whether one
// exists.
func Load[F constraints.Float](ctx context.Context, c *Client, id string) (*esn.Network[F], bool, error) {
	snapshot, ok, err := c.Network(ctx, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	net, err := esn.FromSnapshot[F](snapshot)
	if err != nil {
		return nil, false, err
	}
	return net, true, nil
}
