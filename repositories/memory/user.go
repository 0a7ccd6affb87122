package memory

import (
	"context"
	"sort"
	"time"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

type userRepo struct {
	s    *Store
	inTx bool
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.users[user.ID]; ok {
		return errs.Conflict("User already exists")
	}
	for _, existing := range r.s.data.users {
		if existing.Email == user.Email {
			return errs.Conflict("Email already registered")
		}
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	user, ok := r.s.data.users[id]
	if !ok || user.Status == models.UserStatusDeleted {
		return nil, nil
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	for _, user := range r.s.data.users {
		if user.Email == email && user.Status != models.UserStatusDeleted {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.users[user.ID]; !ok {
		return errs.NotFound("User not found")
	}
	user.UpdatedAt = time.Now()
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.users[id]; !ok {
		return errs.NotFound("User not found")
	}
	delete(r.s.data.users, id)
	return nil
}

func (r *userRepo) List(ctx context.Context, filter repositories.UserFilter, page repositories.Pagination) ([]models.User, int64, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	matched := []models.User{}
	for _, user := range r.s.data.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.Status != "" && user.Status != filter.Status {
			continue
		}
		if filter.Keyword != "" && !containsFold(user.Name, filter.Keyword) && !containsFold(user.Email, filter.Keyword) {
			continue
		}
		matched = append(matched, user)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	start, end := paginateBounds(len(matched), page)
	return matched[start:end], total, nil
}
