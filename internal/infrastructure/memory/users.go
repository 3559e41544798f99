package memory

import (
	"context"

	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type userRow struct {
	u   entity.User
	seq int64
}

func (r *userRow) insertion() int64 { return r.seq }

func (r *userRow) field(name string) (interface{}, bool) {
	switch name {
	case "createdAt":
		return r.u.CreatedAt, true
	case "email":
		return r.u.Email, true
	case "firstName":
		return r.u.FirstName, true
	case "lastName":
		return r.u.LastName, true
	}
	return nil, false
}

func cloneUser(u entity.User) *entity.User {
	u.Addresses = append([]entity.Address(nil), u.Addresses...)
	return &u
}

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s *Store
}

// Create persiste un usuario; el email es único.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.users {
		if row.u.Email == user.Email {
			return domain.ErrDuplicate
		}
	}
	r.s.users[user.ID] = &userRow{u: *cloneUser(*user), seq: r.s.nextSeq()}
	return nil
}

// GetByID busca por id.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.users[id]; ok {
		return cloneUser(row.u), nil
	}
	return nil, nil
}

// GetByEmail busca por email normalizado.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.users {
		if row.u.Email == email {
			return cloneUser(row.u), nil
		}
	}
	return nil, nil
}

// Update reemplaza el usuario sin tocar el hash.
func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	hash := row.u.PasswordHash
	row.u = *cloneUser(*user)
	row.u.PasswordHash = hash
	return nil
}

// UpdatePassword reemplaza el hash.
func (r *UserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.u.PasswordHash = hash
	return nil
}

// Delete elimina el usuario.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

// List filtra por rol y búsqueda.
func (r *UserRepo) List(_ context.Context, f repository.UserFilter, sort repository.SortSpec, page repository.Page) ([]*entity.User, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var rows []*userRow
	for _, row := range r.s.users {
		if f.Role != "" && row.u.Role != f.Role {
			continue
		}
		if f.Search != "" && !containsFold(row.u.FirstName, f.Search) && !containsFold(row.u.LastName, f.Search) && !containsFold(row.u.Email, f.Search) {
			continue
		}
		rows = append(rows, row)
	}
	sortRows(rows, sort)
	out := make([]*entity.User, 0)
	for _, row := range paginate(rows, page) {
		out = append(out, cloneUser(row.u))
	}
	return out, len(rows), nil
}

// Count total de usuarios.
func (r *UserRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}
