package memory

import (
	"context"
	"sort"
	"time"

	"geovista-api/errs"
	"geovista-api/models"
)

type permissionRepo struct {
	s    *Store
	inTx bool
}

func (r *permissionRepo) Create(ctx context.Context, permission *models.PlacePermission) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	for _, existing := range r.s.data.permissions {
		if existing.UserID == permission.UserID && existing.PlaceID == permission.PlaceID {
			return errs.Conflict("Permission already exists for this user and place")
		}
	}
	if permission.InvitedAt.IsZero() {
		permission.InvitedAt = time.Now()
	}
	r.s.data.permissions[permission.ID] = *permission
	return nil
}

func (r *permissionRepo) FindByID(ctx context.Context, id string) (*models.PlacePermission, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	permission, ok := r.s.data.permissions[id]
	if !ok {
		return nil, nil
	}
	return &permission, nil
}

func (r *permissionRepo) Find(ctx context.Context, userID, placeID string) (*models.PlacePermission, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	for _, permission := range r.s.data.permissions {
		if permission.UserID == userID && permission.PlaceID == placeID {
			p := permission
			return &p, nil
		}
	}
	return nil, nil
}

func (r *permissionRepo) Update(ctx context.Context, permission *models.PlacePermission) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.permissions[permission.ID]; !ok {
		return errs.NotFound("Permission not found")
	}
	r.s.data.permissions[permission.ID] = *permission
	return nil
}

func (r *permissionRepo) Delete(ctx context.Context, id string) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.permissions[id]; !ok {
		return errs.NotFound("Permission not found")
	}
	delete(r.s.data.permissions, id)
	return nil
}

func (r *permissionRepo) ListByPlace(ctx context.Context, placeID string) ([]models.PlacePermission, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	permissions := []models.PlacePermission{}
	for _, permission := range r.s.data.permissions {
		if permission.PlaceID == placeID {
			permissions = append(permissions, permission)
		}
	}
	sort.SliceStable(permissions, func(i, j int) bool {
		return permissions[i].InvitedAt.After(permissions[j].InvitedAt)
	})
	return permissions, nil
}

func (r *permissionRepo) ListAcceptedByUser(ctx context.Context, userID string) ([]models.PlacePermission, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	permissions := []models.PlacePermission{}
	for _, permission := range r.s.data.permissions {
		if permission.UserID == userID && permission.AcceptedAt != nil {
			permissions = append(permissions, permission)
		}
	}
	sort.SliceStable(permissions, func(i, j int) bool {
		return permissions[i].AcceptedAt.After(*permissions[j].AcceptedAt)
	})
	return permissions, nil
}
