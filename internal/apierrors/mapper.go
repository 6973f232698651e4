package apierrors

import (
	"errors"
	"fmt"

	collabProcessor "collab-server/internal/collaboration/processor"
	"collab-server/internal/storage"
)

// MapError converts storage and processor errors to APIErrors. All error
// mapping lives here so every endpoint answers the same way for the same
// failure.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	// Processor preconditions
	switch {
	case errors.Is(err, collabProcessor.ErrCampaignNotActive):
		return BadRequest(CodePreconditionNot, "Campaign is not accepting requests")
	case errors.Is(err, collabProcessor.ErrInfluencerNotApproved):
		return BadRequest(CodePreconditionNot, "Influencer account is not approved")
	}

	// Storage taxonomy
	var conflictErr *storage.ConflictError
	if errors.As(err, &conflictErr) {
		return Conflict(fmt.Sprintf("Conflict on %s", conflictErr.Constraint))
	}
	var validationErr *storage.ValidationError
	if errors.As(err, &validationErr) {
		return BadRequest(CodeValidation, fmt.Sprintf("Invalid value for %s: %s", validationErr.Field, validationErr.Message))
	}
	var stateErr *storage.InvalidStateError
	if errors.As(err, &stateErr) {
		return UnprocessableState(fmt.Sprintf("Cannot move request from %s to %s", stateErr.From, stateErr.To))
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return NotFound("Resource not found")
	case errors.Is(err, storage.ErrConflict):
		return Conflict("Resource already exists")
	case errors.Is(err, storage.ErrValidation):
		return BadRequest(CodeValidation, "Invalid request data")
	case errors.Is(err, storage.ErrInvalidState):
		return UnprocessableState("Illegal state transition")
	case errors.Is(err, storage.ErrRawUnsupported):
		return BadRequest(CodeUnsupported, "Operation not supported by this backend")
	case errors.Is(err, storage.ErrBackendUnavailable):
		return ServiceUnavailable("Storage backend unavailable", err)
	}

	return InternalError(err)
}
