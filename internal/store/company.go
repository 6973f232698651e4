package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

// CreateCompanyParams represents parameters for creating a company profile
type CreateCompanyParams struct {
	UserID       string
	Name         string
	LegalID      string
	City         string
	Phone        *string
	ContactEmail *string
}

// CreateSubscriptionParams represents parameters for opening a subscription
type CreateSubscriptionParams struct {
	CompanyID string
	Plan      string
	StartDate time.Time
}

// CreateCompany creates a company profile for an existing user.
func (s *Store) CreateCompany(ctx context.Context, params CreateCompanyParams) (Company, error) {
	id, err := s.backend.Create(ctx, schema.TableCompanies, storage.Row{
		schema.ColUserID:       params.UserID,
		schema.ColName:         params.Name,
		schema.ColLegalID:      params.LegalID,
		schema.ColCity:         params.City,
		schema.ColPhone:        strPtrValue(params.Phone),
		schema.ColContactEmail: strPtrValue(params.ContactEmail),
	})
	if err != nil {
		return Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return s.GetCompanyByID(ctx, id)
}

// GetCompanyByID fetches one company profile.
func (s *Store) GetCompanyByID(ctx context.Context, id string) (Company, error) {
	row, err := s.backend.FindByID(ctx, schema.TableCompanies, id)
	if err != nil {
		return Company{}, err
	}
	return companyFromRow(row), nil
}

// GetCompanyByUserID fetches the profile owned by a user.
func (s *Store) GetCompanyByUserID(ctx context.Context, userID string) (Company, error) {
	row, err := s.backend.FindFirst(ctx, schema.TableCompanies, storage.Conditions{schema.ColUserID: userID})
	if err != nil {
		return Company{}, err
	}
	return companyFromRow(row), nil
}

// GetActiveSubscription returns the company's current active subscription.
func (s *Store) GetActiveSubscription(ctx context.Context, companyID string) (Subscription, error) {
	row, err := s.backend.FindFirst(ctx, schema.TableSubscriptions, storage.Conditions{
		schema.ColCompanyID: companyID,
		schema.ColStatus:    SubscriptionStatusActive,
	})
	if err != nil {
		return Subscription{}, err
	}
	return subscriptionFromRow(row), nil
}

// CreateSubscription opens a new subscription for a company. Any
// still-active subscription is expired in the same transaction, so two
// concurrent renewals cannot leave a company with two active plans.
func (s *Store) CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (Subscription, error) {
	price, ok := SubscriptionPlanPrices[params.Plan]
	if !ok {
		return Subscription{}, &storage.ValidationError{Field: schema.ColPlan, Message: "unknown plan"}
	}
	start := params.StartDate
	if start.IsZero() {
		start = time.Now().UTC()
	}
	end := start.AddDate(0, SubscriptionPlanMonths[params.Plan], 0)

	var result Subscription
	err := s.Transaction(ctx, func(ctx context.Context, ts Store) error {
		current, err := ts.GetActiveSubscription(ctx, params.CompanyID)
		switch {
		case err == nil:
			if _, err := ts.backend.Update(ctx, schema.TableSubscriptions, current.ID, storage.Row{
				schema.ColStatus: SubscriptionStatusExpired,
			}); err != nil {
				return fmt.Errorf("failed to expire previous subscription: %w", err)
			}
		case errors.Is(err, storage.ErrNotFound):
		default:
			return err
		}
		id, err := ts.backend.Create(ctx, schema.TableSubscriptions, storage.Row{
			schema.ColCompanyID: params.CompanyID,
			schema.ColPlan:      params.Plan,
			schema.ColPrice:     price,
			schema.ColStatus:    SubscriptionStatusActive,
			schema.ColStartDate: storage.FormatTime(start),
			schema.ColEndDate:   storage.FormatTime(end),
		})
		if err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		row, err := ts.backend.FindByID(ctx, schema.TableSubscriptions, id)
		if err != nil {
			return err
		}
		result = subscriptionFromRow(row)
		return nil
	})
	return result, err
}

// CancelSubscription moves an active subscription to cancelled.
func (s *Store) CancelSubscription(ctx context.Context, id string) error {
	row, err := s.backend.FindByID(ctx, schema.TableSubscriptions, id)
	if err != nil {
		return err
	}
	if rowString(row, schema.ColStatus) != SubscriptionStatusActive {
		return &storage.InvalidStateError{From: rowString(row, schema.ColStatus), To: SubscriptionStatusCancelled}
	}
	_, err = s.backend.Update(ctx, schema.TableSubscriptions, id, storage.Row{
		schema.ColStatus: SubscriptionStatusCancelled,
	})
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return nil
}

// ListSubscriptions returns a company's subscription history, newest first.
func (s *Store) ListSubscriptions(ctx context.Context, companyID string) ([]Subscription, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableSubscriptions, storage.Query{
		Conditions: storage.Conditions{schema.ColCompanyID: companyID},
		OrderBy:    []storage.Order{{Column: schema.ColStartDate, Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]Subscription, len(rows))
	for i, r := range rows {
		out[i] = subscriptionFromRow(r)
	}
	return out, nil
}

func companyFromRow(r storage.Row) Company {
	return Company{
		ID:           rowString(r, schema.ColID),
		UserID:       rowString(r, schema.ColUserID),
		Name:         rowString(r, schema.ColName),
		LegalID:      rowString(r, schema.ColLegalID),
		City:         rowString(r, schema.ColCity),
		Phone:        rowStringPtr(r, schema.ColPhone),
		ContactEmail: rowStringPtr(r, schema.ColContactEmail),
		CreatedAt:    rowTime(r, schema.ColCreatedAt),
		UpdatedAt:    rowTime(r, schema.ColUpdatedAt),
	}
}

func subscriptionFromRow(r storage.Row) Subscription {
	return Subscription{
		ID:        rowString(r, schema.ColID),
		CompanyID: rowString(r, schema.ColCompanyID),
		Plan:      rowString(r, schema.ColPlan),
		Price:     rowFloat(r, schema.ColPrice),
		Status:    rowString(r, schema.ColStatus),
		StartDate: rowTime(r, schema.ColStartDate),
		EndDate:   rowTime(r, schema.ColEndDate),
		CreatedAt: rowTime(r, schema.ColCreatedAt),
		UpdatedAt: rowTime(r, schema.ColUpdatedAt),
	}
}
