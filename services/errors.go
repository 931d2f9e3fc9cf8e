package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed       = errors.New("validation failed")
	ErrSameTeamMatch          = errors.New("a team cannot play against itself")
	ErrMatchDateRequired      = errors.New("match date is required")
	ErrScoreNegative          = errors.New("scores must not be negative")
	ErrScoreExceedsFrames     = errors.New("combined score exceeds the frames per match")
	ErrFrameNumberOutOfRange  = errors.New("frame number is out of range for the match format")
	ErrFrameSamePlayer        = errors.New("home and away frame players must differ")
	ErrFrameWinnerInvalid     = errors.New("frame winner must be one of the two assigned players")
	ErrFramePlayerNotInLineup = errors.New("frame player is not in the match lineup")
	ErrLineupPositionInvalid  = errors.New("lineup position is out of range")
	ErrLineupTeamInvalid      = errors.New("team is not part of this match")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrPlayerNameRequired     = errors.New("player first name is required")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrInvalidCredentials     = errors.New("invalid email or password")

	// Ошибки конфликтов
	ErrTeamNameConflict  = errors.New("team name is already in use")
	ErrUserEmailConflict = errors.New("email address is already in use")

	// Ошибки, специфичные для сущностей
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchResultNotFound  = errors.New("match result not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
)
