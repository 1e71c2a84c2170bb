package usecase

// Códigos usados nos erros de domínio do pipeline.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeValidation      = "VALIDATION_ERROR"
	CodeMoveInFlight    = "MOVE_IN_FLIGHT"
	CodeCommitFailed    = "COMMIT_FAILED"
	CodeCollectorFailed = "COLLECTOR_FAILED"
	CodeLeadNotFound    = "LEAD_NOT_FOUND"
	CodeInvalidBoard    = "INVALID_BOARD"
	CodeActorNotFound   = "ACTOR_NOT_FOUND"
	CodeIntakeRejected  = "INTAKE_REJECTED"
	CodeSnapshotMissing = "SNAPSHOT_MISSING"
)

// DomainError: regra de negócio violada. O chamador pode mostrar a mensagem.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError: infraestrutura falhou (banco, fila). Recuperável, nunca fatal.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// ErrorCode extrai o código de qualquer um dos dois tipos.
func ErrorCode(err error) string {
	switch e := err.(type) {
	case *DomainError:
		return e.Code
	case *TechnicalError:
		return e.Code
	default:
		return ""
	}
}
