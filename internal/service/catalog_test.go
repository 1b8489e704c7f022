package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libraryhub/libraryhub-go/internal/model"
)

func TestCatalogCreate_Defaults(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	resp, err := svc.catalog.Create(ctx, model.CreateBookRequest{Title: " Dune ", Author: "Herbert"})
	require.NoError(t, err)

	b, err := svc.catalog.Get(ctx, resp.BookID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, 1, b.TotalCopies)
	assert.Equal(t, 1, b.AvailableCopies)
	assert.Zero(t, b.Price)
}

func TestCatalogCreate_Validation(t *testing.T) {
	svc := newTestServices(t)

	tests := []struct {
		name string
		req  model.CreateBookRequest
		want error
	}{
		{name: "missing title", req: model.CreateBookRequest{Author: "A"}, want: ErrTitleRequired},
		{name: "missing author", req: model.CreateBookRequest{Title: "T"}, want: ErrAuthorRequired},
		{name: "zero total", req: model.CreateBookRequest{Title: "T", Author: "A", TotalCopies: intPtr(0)}, want: ErrInvalidTotalCopies},
		{name: "available above total", req: model.CreateBookRequest{Title: "T", Author: "A", TotalCopies: intPtr(2), AvailableCopies: intPtr(3)}, want: ErrInvalidCopies},
		{name: "negative available", req: model.CreateBookRequest{Title: "T", Author: "A", AvailableCopies: intPtr(-1)}, want: ErrInvalidCopies},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.catalog.Create(context.Background(), tt.req)
			assert.Equal(t, tt.want, err)
		})
	}
}

func TestCatalogUpdate(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	bookID := svc.addBook(t, "Dune", 2)

	require.NoError(t, svc.catalog.Update(ctx, bookID, model.BookPatch{Title: strPtr("Dune Messiah")}))
	b, err := svc.catalog.Get(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", b.Title)
	assert.Equal(t, "Author", b.Author)

	assert.Equal(t, ErrBookNotFound, svc.catalog.Update(ctx, 999, model.BookPatch{Title: strPtr("x")}))
	assert.Equal(t, ErrInvalidCopies, svc.catalog.Update(ctx, bookID, model.BookPatch{AvailableCopies: intPtr(3)}))
	assert.Equal(t, ErrTitleRequired, svc.catalog.Update(ctx, bookID, model.BookPatch{Title: strPtr(" ")}))
}

func TestCatalogDelete(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	userID := svc.register(t, "a@x.com", "p1")
	bookID := svc.addBook(t, "Dune", 1)

	_, err := svc.ledger.Borrow(ctx, userID, bookID)
	require.NoError(t, err)
	assert.Equal(t, ErrBookInUse, svc.catalog.Delete(ctx, bookID))

	_, err = svc.ledger.Return(ctx, userID, bookID)
	require.NoError(t, err)

	require.NoError(t, svc.catalog.Delete(ctx, bookID))
	require.NoError(t, svc.catalog.Delete(ctx, bookID), "deleting twice succeeds")

	_, err = svc.catalog.Get(ctx, bookID)
	assert.Equal(t, ErrBookNotFound, err)
}

func TestCatalogList_SubscriberPricing(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.catalog.Create(ctx, model.CreateBookRequest{Title: "Dune", Author: "Herbert", Price: 9.5, HasPDF: true})
	require.NoError(t, err)

	member := svc.register(t, "a@x.com", "p1")
	subscriber := svc.register(t, "s@x.com", "p1")
	require.NoError(t, svc.users.AdminUpdate(ctx, subscriber, model.AdminUserUpdateRequest{IsSubscriber: boolPtr(true)}))

	tests := []struct {
		name     string
		viewerID int64
		want     float64
	}{
		{name: "anonymous", viewerID: 0, want: 9.5},
		{name: "member", viewerID: member, want: 9.5},
		{name: "subscriber", viewerID: subscriber, want: 0},
		{name: "unknown viewer", viewerID: 999, want: 9.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := svc.catalog.List(ctx, model.BookFilter{}.Normalize(), tt.viewerID)
			require.NoError(t, err)
			require.Len(t, views, 1)
			assert.Equal(t, tt.want, views[0].DisplayPrice)
			assert.Equal(t, 9.5, views[0].Price)
			assert.Equal(t, model.AvailabilityAvailable, views[0].Availability)

			view, err := svc.catalog.View(ctx, views[0].ID, tt.viewerID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, view.DisplayPrice)
			assert.Equal(t, model.AvailabilityAvailable, view.Availability)
		})
	}
}

func TestCatalogView_NotFound(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.catalog.View(context.Background(), 42, 0)
	assert.Equal(t, ErrBookNotFound, err)
}

func TestCatalogCategories(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	for _, c := range []string{"Science", "Fiction", "Science", ""} {
		_, err := svc.catalog.Create(ctx, model.CreateBookRequest{Title: "T", Author: "A", Category: c})
		require.NoError(t, err)
	}

	got, err := svc.catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction", "Science"}, got)
}
