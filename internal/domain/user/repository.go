package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// GetByIDForUpdate locks the row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*User, error)
	ListAdmins(ctx context.Context) ([]User, error)

	// AdvanceTier moves the user one tier up unless already at TopTier.
	AdvanceTier(ctx context.Context, id uint64) error
	UpdateDocumentStatusCode(ctx context.Context, id uint64, code int) error
}
