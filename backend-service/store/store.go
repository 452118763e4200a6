package store

import (
	"context"
	"errors"

	"github.com/xxcode2/shadowpay-sub000/backend-service/model"
)

var (
	ErrNotFound = errors.New("link not found")

	// ErrStatusConflict means the stored status no longer matched the
	// expected one when an UpdateIfStatus was applied.
	ErrStatusConflict = errors.New("link status conflict")
)

// LinkStore is the persistence collaborator for links. Implementations are
// interchangeable (memory, file, postgres); the backend owns the only
// authoritative copy of every link and nothing else mutates one.
//
// UpdateIfStatus is the single mutation primitive after creation. It applies
// mutate atomically while the stored status still equals expected and
// returns ErrStatusConflict otherwise, so racing writers get exactly one
// winner regardless of the backing store.
type LinkStore interface {
	Create(ctx context.Context, link model.Link) (model.Link, error)
	Get(ctx context.Context, id string) (model.Link, error)
	UpdateIfStatus(ctx context.Context, id string, expected model.LinkStatus, mutate func(*model.Link)) (model.Link, error)

	// ListByCreator returns links newest-first. An empty creatorID lists all.
	ListByCreator(ctx context.Context, creatorID string) ([]model.Link, error)

	Close() error
}
