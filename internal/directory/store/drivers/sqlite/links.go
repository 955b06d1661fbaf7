package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	"github.com/aussiebroadwan/linkbot/internal/directory/store/drivers/sqlite/gen"
)

type linksRepo struct {
	q           *gen.Queries
	busyTimeout time.Duration
}

func (r *linksRepo) InsertLink(ctx context.Context, externalID, userID int64) (domain.IdentityLink, error) {
	ctx, cancel := bound(ctx, r.busyTimeout)
	defer cancel()

	row, err := r.q.CreateIdentityLink(ctx, gen.CreateIdentityLinkParams{
		ExternalID: externalID,
		UserID:     userID,
	})
	if err != nil {
		return domain.IdentityLink{}, mapCreateError(err)
	}
	return mapLink(row), nil
}

func (r *linksRepo) ListLinks(ctx context.Context) ([]domain.IdentityLink, error) {
	ctx, cancel := bound(ctx, r.busyTimeout)
	defer cancel()

	rows, err := r.q.ListIdentityLinks(ctx)
	if err != nil {
		return nil, mapReadError(err)
	}

	links := make([]domain.IdentityLink, len(rows))
	for i, row := range rows {
		links[i] = mapLink(row)
	}
	return links, nil
}
