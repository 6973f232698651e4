package processor

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"collab-server/internal/observability"
	"collab-server/internal/store"
)

// AccountsProcessor handles registration and account moderation. Each
// registration writes the user row and its role profile in one transaction,
// so a failed profile insert never leaves an orphan account.
type AccountsProcessor struct {
	store  store.Store
	logger *observability.Logger
}

func New(st store.Store, logger *observability.Logger) AccountsProcessor {
	return AccountsProcessor{store: st, logger: logger}
}

// RegisterInfluencerParams represents parameters for influencer registration
type RegisterInfluencerParams struct {
	Email              string
	Password           string
	FullName           string
	City               string
	Phone              *string
	InstagramHandle    *string
	InstagramFollowers int64
	TikTokHandle       *string
	TikTokFollowers    int64
}

// RegisterCompanyParams represents parameters for company registration
type RegisterCompanyParams struct {
	Email        string
	Password     string
	Name         string
	LegalID      string
	City         string
	Phone        *string
	ContactEmail *string
	Plan         string
}

// RegisterInfluencer creates a pending influencer account.
func (p *AccountsProcessor) RegisterInfluencer(ctx context.Context, params RegisterInfluencerParams) (store.User, store.Influencer, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email", Value: params.Email},
	)

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		p.logger.Error(ctx, "failed to hash password", err)
		return store.User{}, store.Influencer{}, err
	}

	var user store.User
	var influencer store.Influencer
	err = p.store.Transaction(ctx, func(ctx context.Context, ts store.Store) error {
		user, err = ts.CreateUser(ctx, store.CreateUserParams{
			Email:        params.Email,
			PasswordHash: string(hash),
			Role:         store.UserRoleInfluencer,
		})
		if err != nil {
			return err
		}
		influencer, err = ts.CreateInfluencer(ctx, store.CreateInfluencerParams{
			UserID:             user.ID,
			FullName:           params.FullName,
			City:               params.City,
			Phone:              params.Phone,
			InstagramHandle:    params.InstagramHandle,
			InstagramFollowers: params.InstagramFollowers,
			TikTokHandle:       params.TikTokHandle,
			TikTokFollowers:    params.TikTokFollowers,
		})
		return err
	})
	if err != nil {
		return store.User{}, store.Influencer{}, err
	}
	return user, influencer, nil
}

// RegisterCompany creates a pending company account with its initial
// subscription, priced by plan.
func (p *AccountsProcessor) RegisterCompany(ctx context.Context, params RegisterCompanyParams) (store.User, store.Company, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email", Value: params.Email},
	)

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		p.logger.Error(ctx, "failed to hash password", err)
		return store.User{}, store.Company{}, err
	}

	var user store.User
	var company store.Company
	err = p.store.Transaction(ctx, func(ctx context.Context, ts store.Store) error {
		user, err = ts.CreateUser(ctx, store.CreateUserParams{
			Email:        params.Email,
			PasswordHash: string(hash),
			Role:         store.UserRoleCompany,
		})
		if err != nil {
			return err
		}
		company, err = ts.CreateCompany(ctx, store.CreateCompanyParams{
			UserID:       user.ID,
			Name:         params.Name,
			LegalID:      params.LegalID,
			City:         params.City,
			Phone:        params.Phone,
			ContactEmail: params.ContactEmail,
		})
		if err != nil {
			return err
		}
		_, err = ts.CreateSubscription(ctx, store.CreateSubscriptionParams{
			CompanyID: company.ID,
			Plan:      params.Plan,
		})
		return err
	})
	if err != nil {
		return store.User{}, store.Company{}, err
	}
	return user, company, nil
}

// ApproveUser moves an account to approved.
func (p *AccountsProcessor) ApproveUser(ctx context.Context, userID string) error {
	return p.setStatus(ctx, userID, store.UserStatusApproved)
}

// RejectUser moves an account to rejected.
func (p *AccountsProcessor) RejectUser(ctx context.Context, userID string) error {
	return p.setStatus(ctx, userID, store.UserStatusRejected)
}

// SuspendUser moves an account to suspended.
func (p *AccountsProcessor) SuspendUser(ctx context.Context, userID string) error {
	return p.setStatus(ctx, userID, store.UserStatusSuspended)
}

func (p *AccountsProcessor) setStatus(ctx context.Context, userID, status string) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: userID},
		observability.Field{Key: "new_status", Value: status},
	)
	if err := p.store.UpdateUserStatus(ctx, userID, status); err != nil {
		p.logger.InfoWithError(ctx, "failed to update account status", err)
		return err
	}
	p.logger.Info(ctx, "account status updated")
	return nil
}

// GetUser fetches one account.
func (p *AccountsProcessor) GetUser(ctx context.Context, userID string) (store.User, error) {
	return p.store.GetUserByID(ctx, userID)
}

// ListPendingUsers lists accounts awaiting moderation, oldest first.
func (p *AccountsProcessor) ListPendingUsers(ctx context.Context) ([]store.User, error) {
	return p.store.ListUsersByStatus(ctx, store.UserStatusPending)
}
