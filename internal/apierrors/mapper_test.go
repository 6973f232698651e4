package apierrors

import (
	"errors"
	"net/http"
	"testing"

	collabProcessor "collab-server/internal/collaboration/processor"
	"collab-server/internal/storage"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"bare conflict", storage.ErrConflict, http.StatusConflict, CodeConflict},
		{"typed conflict", &storage.ConflictError{Table: "users", Constraint: "users.email"}, http.StatusConflict, CodeConflict},
		{"typed validation", &storage.ValidationError{Field: "role", Message: "unknown value"}, http.StatusBadRequest, CodeValidation},
		{"invalid state", &storage.InvalidStateError{From: "rejected", To: "approved"}, http.StatusConflict, CodeInvalidState},
		{"raw unsupported", storage.ErrRawUnsupported, http.StatusBadRequest, CodeUnsupported},
		{"backend unavailable", storage.ErrBackendUnavailable, http.StatusServiceUnavailable, CodeUnavailable},
		{"campaign not active", collabProcessor.ErrCampaignNotActive, http.StatusBadRequest, CodePreconditionNot},
		{"influencer not approved", collabProcessor.ErrInfluencerNotApproved, http.StatusBadRequest, CodePreconditionNot},
		{"unknown error is sanitized", errors.New("pq: something leaked"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, tt.wantStatus)
			}
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestMapError_WrappedErrorsStillMatch(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("failed to update request status"), &storage.InvalidStateError{From: "completed", To: "cancelled"})
	got := MapError(wrapped)
	if got.StatusCode != http.StatusConflict {
		t.Errorf("StatusCode = %d, want %d", got.StatusCode, http.StatusConflict)
	}
}

func TestMapError_PassesThroughAPIError(t *testing.T) {
	t.Parallel()

	original := NotFound("campaign not found")
	got := MapError(original)
	if got != original {
		t.Error("an APIError must pass through unchanged")
	}
}
