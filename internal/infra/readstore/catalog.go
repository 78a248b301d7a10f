package readstore

import (
	"context"
	"time"

	"parking-reservation/internal/domain/resource"
	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/infra/db"
	"parking-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	activeUserSQL = `
SELECT id, role, is_active, created_at
FROM users
WHERE id = $1 AND is_active AND deleted_at IS NULL`

	activeZoneSQL = `
SELECT z.id, z.name, z.status, l.opened_at, l.closed_at, l.price_per_hour, l.owner_id
FROM parking_zones z
JOIN parking_lots l ON l.id = z.lot_id
WHERE z.id = $1 AND z.deleted_at IS NULL AND l.deleted_at IS NULL`
)

// CatalogReadStore reads the user and catalog tables, which other services own.
type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: dbtx}
}

func (r *CatalogReadStore) ActiveUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var (
		userID    uuid.UUID
		role      string
		isActive  bool
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx, activeUserSQL, id).Scan(&userID, &role, &isActive, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}

	u, err := user.ReconstructUser(userID, user.Role(role), isActive, createdAt)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "corrupt user row", err)
	}
	return u, nil
}

func (r *CatalogReadStore) ActiveResourceByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	var (
		zoneID, ownerID    uuid.UUID
		name, status       string
		openedAt, closedAt pgtype.Time
		pricePerHour       int64
	)
	err := r.db.QueryRow(ctx, activeZoneSQL, id).Scan(
		&zoneID, &name, &status, &openedAt, &closedAt, &pricePerHour, &ownerID,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "parking zone not found", err)
		}
		return nil, infra.WrapRepoErr("failed to find parking zone", err)
	}

	hours, err := resource.NewOperatingHours(pgconv.DurationFromPgTime(openedAt), pgconv.DurationFromPgTime(closedAt))
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "corrupt operating hours", err)
	}
	res, err := resource.NewResource(zoneID, name, resource.Status(status), hours, pricePerHour, ownerID)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "corrupt parking zone row", err)
	}
	return res, nil
}
