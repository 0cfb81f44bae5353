package internal

import (
	"errors"

	"github.com/NYCU-SDC/summer/pkg/problem"
)

var (
	// Auth Errors
	ErrPermissionDenied    = errors.New("permission denied")
	ErrUnauthorizedError   = errors.New("unauthorized error")
	ErrInternalServerError = errors.New("internal server error")
	ErrNotFound            = errors.New("not found")
	ErrNoCredentials       = errors.New("no stored credentials")

	// JWT Authentication Errors
	ErrMissingAuthHeader       = errors.New("missing access token")
	ErrInvalidAuthHeaderFormat = errors.New("invalid access token")
	ErrInvalidJWTToken         = errors.New("invalid JWT token")
	ErrJWTTokenExpired         = errors.New("JWT token expired")
	ErrInvalidAuthUser         = errors.New("invalid authenticated user")
	ErrNoUserInContext         = errors.New("no user found in request context")

	ErrInvalidRequestBody = errors.New("invalid request body")

	// Question Type Errors
	ErrInvalidQuestionType  = errors.New("invalid question type")
	ErrQuestionTypeNotFound = errors.New("question type not found")
	ErrInvalidCategory      = errors.New("invalid question category")

	// Template Errors
	ErrTemplateNotFound = errors.New("template not found")

	// Draft Errors
	ErrDraftNotFound       = errors.New("draft not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrInvalidReorder      = errors.New("reorder list is not a permutation of the current questions")
	ErrInvalidPosition     = errors.New("question position out of range")
	ErrInvalidSettings     = errors.New("invalid survey settings")
	ErrSurveyNotPersisted  = errors.New("survey has not been saved yet")
	ErrDraftReplaced       = errors.New("draft was replaced while the request was in flight")
	ErrDraftClosed         = errors.New("draft session is closed")
	ErrValidationFailed    = errors.New("validation failed")
	ErrSurveyAlreadyClosed = errors.New("survey is already closed")

	// Remote Errors
	ErrRemoteCall         = errors.New("survey storage request failed")
	ErrRemoteUnauthorized = errors.New("survey storage rejected the credentials")
	ErrRemoteNotFound     = errors.New("survey storage resource not found")
	ErrRemoteRejected     = errors.New("survey storage rejected the request")

	// Export Errors
	ErrExportFailed = errors.New("failed to export survey")
)

func NewProblemWriter() *problem.HttpWriter {
	return problem.NewWithMapping(ErrorHandler)
}

func ErrorHandler(err error) problem.Problem {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return problem.NewForbiddenProblem("permission denied")
	case errors.Is(err, ErrUnauthorizedError):
		return problem.NewUnauthorizedProblem("unauthorized error")
	case errors.Is(err, ErrInternalServerError):
		return problem.NewInternalServerProblem("internal server error")
	case errors.Is(err, ErrNotFound):
		return problem.NewNotFoundProblem("not found")
	case errors.Is(err, ErrNoCredentials):
		return problem.NewUnauthorizedProblem("no stored credentials, please log in again")

	// JWT Authentication Errors
	case errors.Is(err, ErrMissingAuthHeader):
		return problem.NewUnauthorizedProblem("missing access token")
	case errors.Is(err, ErrInvalidAuthHeaderFormat):
		return problem.NewUnauthorizedProblem("invalid access token")
	case errors.Is(err, ErrInvalidJWTToken):
		return problem.NewUnauthorizedProblem("invalid JWT token")
	case errors.Is(err, ErrJWTTokenExpired):
		return problem.NewUnauthorizedProblem("JWT token expired")
	case errors.Is(err, ErrInvalidAuthUser):
		return problem.NewUnauthorizedProblem("invalid authenticated user")
	case errors.Is(err, ErrNoUserInContext):
		return problem.NewUnauthorizedProblem("no user found in request context")
	case errors.Is(err, ErrInvalidRequestBody):
		return problem.NewBadRequestProblem("invalid request body")

	// Question Type Errors
	case errors.Is(err, ErrInvalidQuestionType):
		return problem.NewValidateProblem(err.Error())
	case errors.Is(err, ErrQuestionTypeNotFound):
		return problem.NewNotFoundProblem("question type not found")
	case errors.Is(err, ErrInvalidCategory):
		return problem.NewBadRequestProblem("invalid question category")

	// Template Errors
	case errors.Is(err, ErrTemplateNotFound):
		return problem.NewNotFoundProblem("template not found")

	// Draft Errors
	case errors.Is(err, ErrDraftNotFound):
		return problem.NewNotFoundProblem("draft not found")
	case errors.Is(err, ErrDraftClosed):
		return problem.NewNotFoundProblem("draft session is closed")
	case errors.Is(err, ErrQuestionNotFound):
		return problem.NewNotFoundProblem("question not found")
	case errors.Is(err, ErrInvalidReorder):
		return problem.NewValidateProblem("reorder list must contain every question exactly once")
	case errors.Is(err, ErrInvalidPosition):
		return problem.NewValidateProblem("question position out of range")
	case errors.Is(err, ErrInvalidSettings):
		return problem.NewValidateProblem("maxResponses and responseTimeout must not be negative")
	case errors.Is(err, ErrSurveyNotPersisted):
		return problem.NewValidateProblem("survey has not been saved yet")
	case errors.Is(err, ErrDraftReplaced):
		return problem.NewValidateProblem("draft was replaced while the request was in flight")
	case errors.Is(err, ErrSurveyAlreadyClosed):
		return problem.NewValidateProblem("survey is already closed")

	// Validation Errors
	case errors.Is(err, ErrValidationFailed):
		return problem.NewValidateProblem(err.Error())

	// Remote Errors
	case errors.Is(err, ErrRemoteUnauthorized):
		return problem.NewUnauthorizedProblem(err.Error())
	case errors.Is(err, ErrRemoteNotFound):
		return problem.NewNotFoundProblem(err.Error())
	case errors.Is(err, ErrRemoteRejected):
		return problem.NewBadRequestProblem(err.Error())
	case errors.Is(err, ErrRemoteCall):
		return problem.NewInternalServerProblem(err.Error())

	// Export Errors
	case errors.Is(err, ErrExportFailed):
		return problem.NewInternalServerProblem("failed to export survey")
	}
	return problem.Problem{}
}
