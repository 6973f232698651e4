package store

import (
	"context"
	"fmt"

	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

// CreateAdmin creates an admin profile for an existing user.
func (s *Store) CreateAdmin(ctx context.Context, userID, fullName string) (Admin, error) {
	id, err := s.backend.Create(ctx, schema.TableAdmins, storage.Row{
		schema.ColUserID:   userID,
		schema.ColFullName: fullName,
	})
	if err != nil {
		return Admin{}, fmt.Errorf("failed to create admin: %w", err)
	}
	row, err := s.backend.FindByID(ctx, schema.TableAdmins, id)
	if err != nil {
		return Admin{}, err
	}
	return adminFromRow(row), nil
}

// GetAdminByUserID fetches the admin profile owned by a user.
func (s *Store) GetAdminByUserID(ctx context.Context, userID string) (Admin, error) {
	row, err := s.backend.FindFirst(ctx, schema.TableAdmins, storage.Conditions{schema.ColUserID: userID})
	if err != nil {
		return Admin{}, err
	}
	return adminFromRow(row), nil
}

func adminFromRow(r storage.Row) Admin {
	return Admin{
		ID:        rowString(r, schema.ColID),
		UserID:    rowString(r, schema.ColUserID),
		FullName:  rowString(r, schema.ColFullName),
		CreatedAt: rowTime(r, schema.ColCreatedAt),
		UpdatedAt: rowTime(r, schema.ColUpdatedAt),
	}
}
