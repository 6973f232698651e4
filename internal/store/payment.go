package store

import (
	"context"
	"fmt"

	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

// CreatePaymentParams represents parameters for recording a payment
// transaction
type CreatePaymentParams struct {
	SubscriptionID string
	Amount         float64
	Currency       string
	Method         string
	ExternalRef    *string
}

// CreatePaymentTransaction records a payment attempt against a subscription.
func (s *Store) CreatePaymentTransaction(ctx context.Context, params CreatePaymentParams) (PaymentTransaction, error) {
	id, err := s.backend.Create(ctx, schema.TablePaymentTransactions, storage.Row{
		schema.ColSubscriptionID: params.SubscriptionID,
		schema.ColAmount:         params.Amount,
		schema.ColCurrency:       params.Currency,
		schema.ColMethod:         params.Method,
		schema.ColExternalRef:    strPtrValue(params.ExternalRef),
		schema.ColStatus:         PaymentStatusPending,
	})
	if err != nil {
		return PaymentTransaction{}, fmt.Errorf("failed to create payment transaction: %w", err)
	}
	row, err := s.backend.FindByID(ctx, schema.TablePaymentTransactions, id)
	if err != nil {
		return PaymentTransaction{}, err
	}
	return paymentFromRow(row), nil
}

// UpdatePaymentStatus moves a payment transaction to a new status.
func (s *Store) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	ok, err := s.backend.Update(ctx, schema.TablePaymentTransactions, id, storage.Row{schema.ColStatus: status})
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if !ok {
		return storage.ErrNotFound
	}
	return nil
}

// ListPaymentTransactions returns the payment history of a subscription,
// newest first.
func (s *Store) ListPaymentTransactions(ctx context.Context, subscriptionID string) ([]PaymentTransaction, error) {
	rows, err := s.backend.FindAll(ctx, schema.TablePaymentTransactions, storage.Query{
		Conditions: storage.Conditions{schema.ColSubscriptionID: subscriptionID},
		OrderBy:    []storage.Order{{Column: schema.ColCreatedAt, Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]PaymentTransaction, len(rows))
	for i, r := range rows {
		out[i] = paymentFromRow(r)
	}
	return out, nil
}

func paymentFromRow(r storage.Row) PaymentTransaction {
	return PaymentTransaction{
		ID:             rowString(r, schema.ColID),
		SubscriptionID: rowString(r, schema.ColSubscriptionID),
		Amount:         rowFloat(r, schema.ColAmount),
		Currency:       rowString(r, schema.ColCurrency),
		Method:         rowString(r, schema.ColMethod),
		ExternalRef:    rowStringPtr(r, schema.ColExternalRef),
		Status:         rowString(r, schema.ColStatus),
		CreatedAt:      rowTime(r, schema.ColCreatedAt),
		UpdatedAt:      rowTime(r, schema.ColUpdatedAt),
	}
}
