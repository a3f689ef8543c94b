package service

import (
	"context"
	"errors"
	"strings"

	models "furnisure/model"
	"furnisure/store"
)

// SyncUser mirrors the identity provider's account into users. The body may
// only describe the caller.
func (s *Service) SyncUser(ctx context.Context, subject string, req models.SyncUserRequest) (models.User, error) {
	if subject == "" {
		return models.User{}, invalid("sub", "subject required")
	}
	if req.ClerkID == "" {
		req.ClerkID = subject
	}
	if req.ClerkID != subject {
		return models.User{}, ErrForbidden
	}
	if !strings.Contains(req.Email, "@") {
		return models.User{}, invalid("email", "valid email required")
	}
	row, err := s.store.UpsertUser(ctx, store.UserRow{
		ID:       subject,
		Email:    strings.TrimSpace(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.PhoneNumber),
	})
	if err != nil {
		return models.User{}, err
	}
	return userDTO(row), nil
}

func (s *Service) Profile(ctx context.Context, userID string) (models.User, error) {
	row, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	return userDTO(row), nil
}

// IsAdmin reads the admin flag from the users table. Unknown users are not admins.
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	row, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return row.IsAdmin, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Customer{
			User:       userDTO(r.UserRow),
			OrderCount: r.OrderCount,
			TotalSpent: r.TotalSpent,
		})
	}
	return out, nil
}

func userDTO(r store.UserRow) models.User {
	return models.User{
		ID:        r.ID,
		Email:     r.Email,
		FullName:  r.FullName,
		Phone:     r.Phone,
		IsAdmin:   r.IsAdmin,
		CreatedAt: r.CreatedAt,
	}
}
