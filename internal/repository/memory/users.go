package memory

import (
	"context"
	"strings"

	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

type userRepo struct {
	v view
}

func (r userRepo) Create(_ context.Context, user *model.User) error {
	return r.v.do(func(d *dataset) error {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, user.Email) {
				return repository.ErrDuplicateEmail
			}
		}
		if user.Status == "" {
			user.Status = model.UserStatusActive
		}
		now := r.v.s.now()
		d.lastUserID++
		user.ID = d.lastUserID
		user.CreatedAt = now
		user.UpdatedAt = now
		d.users[user.ID] = *user
		return nil
	})
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	var found *model.User
	err := r.v.do(func(d *dataset) error {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				found = &u
				return nil
			}
		}
		return repository.ErrUserNotFound
	})
	return found, err
}

func (r userRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	var found *model.User
	err := r.v.do(func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return repository.ErrUserNotFound
		}
		found = &u
		return nil
	})
	return found, err
}

func (r userRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	return r.v.do(func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return nil
		}
		u.PasswordHash = passwordHash
		u.UpdatedAt = r.v.s.now()
		d.users[id] = u
		return nil
	})
}

func (r userRepo) Update(_ context.Context, id int64, p model.UserPatch) error {
	if p.Empty() {
		return nil
	}
	return r.v.do(func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return nil
		}
		if p.Name != nil {
			u.Name = *p.Name
		}
		if p.Phone != nil {
			u.Phone = *p.Phone
		}
		if p.Address != nil {
			u.Address = *p.Address
		}
		if p.Status != nil {
			u.Status = *p.Status
		}
		if p.IsSubscriber != nil {
			u.IsSubscriber = *p.IsSubscriber
		}
		u.UpdatedAt = r.v.s.now()
		d.users[id] = u
		return nil
	})
}
