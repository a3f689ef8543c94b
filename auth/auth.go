// Package auth reads the signed-in customer's identity and gates admin views
// on the server's answer, never on client-held role data.
package auth

import (
	"context"
	"errors"
	"fmt"

	models "furnisure/model"
)

var ErrForbidden = errors.New("auth: admin access required")

// Identity is the read-only customer data the checkout form shows.
type Identity struct {
	UserID   string
	FullName string
	Email    string
	Phone    string
}

// ProfileAPI is the slice of the REST client auth needs.
type ProfileAPI interface {
	Profile(ctx context.Context) (models.User, error)
	SyncUser(ctx context.Context, req models.SyncUserRequest) (models.User, error)
}

type Authorizer struct {
	api ProfileAPI
}

func NewAuthorizer(api ProfileAPI) *Authorizer {
	return &Authorizer{api: api}
}

// Identity fetches the profile of the token's owner.
func (a *Authorizer) Identity(ctx context.Context) (Identity, error) {
	u, err := a.api.Profile(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("load profile: %w", err)
	}
	return identityOf(u), nil
}

// RequireAdmin asks the server whether the caller is an admin. Any failure
// to get an answer denies access.
func (a *Authorizer) RequireAdmin(ctx context.Context) (Identity, error) {
	u, err := a.api.Profile(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	if !u.IsAdmin {
		return Identity{}, ErrForbidden
	}
	return identityOf(u), nil
}

// SyncUser mirrors the identity provider's account into the backend after sign in.
func (a *Authorizer) SyncUser(ctx context.Context, id Identity) (models.User, error) {
	return a.api.SyncUser(ctx, models.SyncUserRequest{
		ClerkID:     id.UserID,
		Email:       id.Email,
		FullName:    id.FullName,
		PhoneNumber: id.Phone,
	})
}

func identityOf(u models.User) Identity {
	return Identity{UserID: u.ID, FullName: u.FullName, Email: u.Email, Phone: u.Phone}
}
