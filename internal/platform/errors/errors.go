package errors

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain identifies this module in ErrorInfo details.
const Domain = "github.com/louisbranch/leaguepool"

// Error carries a stable machine code alongside an operator-facing message.
// Metadata feeds the localization templates in errors/i18n.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

// New returns an error with a code and an operator-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata returns an error whose metadata is available to localized
// message templates.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap returns an error that records cause for chain traversal.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// Is matches errors by code, so sentinel comparisons survive wrapping.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Code == e.Code
}

// ToGRPCStatus renders the error as a gRPC status. The status message keeps
// the internal text for logs; userMessage carries the translation shown to
// callers in the requested locale.
func (e *Error) ToGRPCStatus(locale string, userMessage string) error {
	st := status.New(e.Code.GRPCCode(), e.Message)

	detailed, err := st.WithDetails(
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
		&errdetails.LocalizedMessage{
			Locale:  locale,
			Message: userMessage,
		},
	)
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}
