package memory

import (
	"context"
	"time"

	"geovista-api/errs"
	"geovista-api/models"
)

type sessionRepo struct {
	s    *Store
	inTx bool
}

func (r *sessionRepo) Create(ctx context.Context, session *models.Session) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.sessions[session.Token]; ok {
		return errs.Conflict("Session already exists")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.s.data.sessions[session.Token] = *session
	return nil
}

func (r *sessionRepo) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	session, ok := r.s.data.sessions[token]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepo) DeleteByToken(ctx context.Context, token string) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.sessions[token]; !ok {
		return errs.NotFound("Session not found")
	}
	delete(r.s.data.sessions, token)
	return nil
}

func (r *sessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	var removed int64
	for token, session := range r.s.data.sessions {
		if session.ExpiresAt.Before(before) {
			delete(r.s.data.sessions, token)
			removed++
		}
	}
	return removed, nil
}
