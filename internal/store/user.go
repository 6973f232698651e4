package store

import (
	"context"
	"fmt"

	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

// CreateUserParams represents parameters for creating a user
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Role         string
	Status       string
}

// CreateUser creates a new user row. A duplicate email surfaces as a
// Conflict from the backend.
func (s *Store) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	status := params.Status
	if status == "" {
		status = UserStatusPending
	}
	id, err := s.backend.Create(ctx, schema.TableUsers, storage.Row{
		schema.ColEmail:        params.Email,
		schema.ColPasswordHash: params.PasswordHash,
		schema.ColRole:         params.Role,
		schema.ColStatus:       status,
	})
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return s.GetUserByID(ctx, id)
}

// GetUserByID fetches one user.
func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	row, err := s.backend.FindByID(ctx, schema.TableUsers, id)
	if err != nil {
		return User{}, err
	}
	return userFromRow(row), nil
}

// GetUserByEmail fetches one user by their unique email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row, err := s.backend.FindFirst(ctx, schema.TableUsers, storage.Conditions{schema.ColEmail: email})
	if err != nil {
		return User{}, err
	}
	return userFromRow(row), nil
}

// ListUsersByStatus returns users in a given account status, oldest first.
func (s *Store) ListUsersByStatus(ctx context.Context, status string) ([]User, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableUsers, storage.Query{
		Conditions: storage.Conditions{schema.ColStatus: status},
		OrderBy:    []storage.Order{{Column: schema.ColCreatedAt}},
	})
	if err != nil {
		return nil, err
	}
	users := make([]User, len(rows))
	for i, r := range rows {
		users[i] = userFromRow(r)
	}
	return users, nil
}

// UpdateUserStatus moves a user to a new account status.
func (s *Store) UpdateUserStatus(ctx context.Context, id, status string) error {
	ok, err := s.backend.Update(ctx, schema.TableUsers, id, storage.Row{schema.ColStatus: status})
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if !ok {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteUser removes a user. The owned profile and everything under it goes
// with it (cascade).
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	ok, err := s.backend.Delete(ctx, schema.TableUsers, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !ok {
		return storage.ErrNotFound
	}
	return nil
}

func userFromRow(r storage.Row) User {
	return User{
		ID:           rowString(r, schema.ColID),
		Email:        rowString(r, schema.ColEmail),
		PasswordHash: rowString(r, schema.ColPasswordHash),
		Role:         rowString(r, schema.ColRole),
		Status:       rowString(r, schema.ColStatus),
		CreatedAt:    rowTime(r, schema.ColCreatedAt),
		UpdatedAt:    rowTime(r, schema.ColUpdatedAt),
	}
}
