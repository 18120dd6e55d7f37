package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Аутентификация и авторизация
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Ошибки валидации
	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrInvalidRole      = errors.New("invalid role provided")

	// Ошибки бизнес-правил подачи заявки
	ErrResultsPublished   = errors.New("results declared, applications closed")
	ErrPhaseDeadlinePast  = errors.New("phase deadline has passed")
	ErrRegistrationClosed = errors.New("registration window closed")
	ErrReapplyForbidden   = errors.New("previously rejected, reapplication forbidden")
	ErrAlreadyApplied     = errors.New("application already submitted for this hackathon")
	ErrInvalidTeamParams  = errors.New("invalid team parameters")

	// Ошибки состояния заявки и ревью
	ErrApplicationRejected  = errors.New("application has been rejected")
	ErrSubmissionMissing    = errors.New("no submission exists for this phase")
	ErrReuploadLimitReached = errors.New("reupload limit reached for this submission")
	ErrAcceptDuringReupload = errors.New("cannot accept a submission awaiting reupload")
	ErrInvalidReviewStatus  = errors.New("invalid review status provided")
	ErrShowcaseRankRequired = errors.New("showcase requires a final rank in the top three")
	ErrInvalidRank          = errors.New("final rank must be positive")

	// Ошибки аутентификации пользователей
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound        = errors.New("user not found")
	ErrHackathonNotFound   = errors.New("hackathon not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrPhaseNotFound       = errors.New("phase not found in this hackathon")

	// Ошибки хакатонов
	ErrHackathonTitleRequired = errors.New("hackathon title is required")
	ErrHackathonPhaseInvalid  = errors.New("hackathon phases must have names")
)
