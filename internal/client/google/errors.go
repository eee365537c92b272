package google

// ErrorKind различает классы ошибок клиента для ветвления у вызывающего.
// Детали (тело ответа, payload) остаются в логах.
type ErrorKind int

const (
	KindCredentialLoad ErrorKind = iota + 1
	KindTokenIssuance
	KindReportRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindCredentialLoad:
		return "credential_load"
	case KindTokenIssuance:
		return "token_issuance"
	case KindReportRequest:
		return "report_request"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind   ErrorKind
	Status int // HTTP статус удалённого API, 0 если не применимо

	msg   string
	cause error
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.cause }

func newError(kind ErrorKind, status int, msg string, cause error) *Error {
	return &Error{Kind: kind, Status: status, msg: msg, cause: cause}
}
