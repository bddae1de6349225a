package services

import "errors"

// Ошибки всех сервисов в одном месте, чтобы маппинг на HTTP был единым.
var (
	// Validation of transaction operation inputs
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrTeamFieldsRequired = errors.New("team name is required")
	ErrNegativeAmount     = errors.New("sold amount must not be negative")
	ErrNegativeBudget     = errors.New("team budget must not be negative")
	ErrRatingOutOfRange   = errors.New("rating must be between 0 and 100")
	ErrInvalidRole        = errors.New("invalid player role")
	ErrInvalidNationality = errors.New("invalid nationality")

	// Budget invariant
	ErrInsufficientFunds = errors.New("insufficient team budget")

	// Lookups
	ErrPlayerNotFound = errors.New("player not found")
	ErrTeamNotFound   = errors.New("team not found")

	// Conflicts
	ErrTeamNameConflict = errors.New("team name is already in use")

	// Access gate
	ErrInvalidCredentials = errors.New("invalid admin secret")
	ErrTeamSecretMismatch = errors.New("team secret does not match")
)
