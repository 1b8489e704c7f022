package memory

import (
	"context"

	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
)

type refreshTokenRepo struct {
	v view
}

func (r refreshTokenRepo) Create(_ context.Context, t *model.RefreshToken) error {
	return r.v.do(func(d *dataset) error {
		d.lastTokenID++
		t.ID = d.lastTokenID
		t.CreatedAt = r.v.s.now()
		d.refreshTokens[t.Token] = *t
		return nil
	})
}

func (r refreshTokenRepo) Find(_ context.Context, token string) (*model.RefreshToken, error) {
	var found *model.RefreshToken
	err := r.v.do(func(d *dataset) error {
		t, ok := d.refreshTokens[token]
		if !ok {
			return repository.ErrTokenNotFound
		}
		found = &t
		return nil
	})
	return found, err
}

// FindForUpdate is Find; WithTx already holds the store lock.
func (r refreshTokenRepo) FindForUpdate(ctx context.Context, token string) (*model.RefreshToken, error) {
	return r.Find(ctx, token)
}

func (r refreshTokenRepo) Consume(_ context.Context, token string) error {
	return r.v.do(func(d *dataset) error {
		if _, ok := d.refreshTokens[token]; !ok {
			return repository.ErrTokenNotFound
		}
		delete(d.refreshTokens, token)
		return nil
	})
}

func (r refreshTokenRepo) Delete(_ context.Context, token string) error {
	return r.v.do(func(d *dataset) error {
		delete(d.refreshTokens, token)
		return nil
	})
}

type passwordResetRepo struct {
	v view
}

func (r passwordResetRepo) Create(_ context.Context, pr *model.PasswordReset) error {
	return r.v.do(func(d *dataset) error {
		d.lastResetID++
		pr.ID = d.lastResetID
		pr.CreatedAt = r.v.s.now()
		d.resets[pr.Token] = *pr
		return nil
	})
}

func (r passwordResetRepo) GetForUpdate(_ context.Context, token string) (*model.PasswordReset, error) {
	var found *model.PasswordReset
	err := r.v.do(func(d *dataset) error {
		pr, ok := d.resets[token]
		if !ok {
			return repository.ErrTokenNotFound
		}
		found = &pr
		return nil
	})
	return found, err
}

func (r passwordResetRepo) MarkUsed(_ context.Context, id int64) error {
	return r.v.do(func(d *dataset) error {
		for token, pr := range d.resets {
			if pr.ID == id {
				pr.Used = true
				d.resets[token] = pr
				return nil
			}
		}
		return nil
	})
}
