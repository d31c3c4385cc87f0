package congress

// Code classifies a domain error.
type Code string

const (
	CodeNotFound        Code = "not_found"
	CodeInvalidState    Code = "invalid_state"
	CodeUnauthorized    Code = "unauthorized"
	CodeInvalidArgument Code = "invalid_argument"
)

// Error is a recoverable workflow error reported back to the requesting actor.
type Error struct {
	Code    Code
	Reason  string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is matches on code, and on reason when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// Code-level sentinels.
var (
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInvalidState    = &Error{Code: CodeInvalidState, Message: "invalid state"}
	ErrUnauthorized    = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
)

// Reason-level sentinels.
var (
	ErrAlreadyCosponsor = &Error{Code: CodeInvalidState, Reason: "already_cosponsor", Message: "Already a cosponsor."}
	ErrVotingStarted    = &Error{Code: CodeInvalidState, Reason: "voting_started", Message: "Voting started, cannot cosponsor."}
	ErrRoundClosed      = &Error{Code: CodeInvalidState, Reason: "round_closed", Message: "Voting is not open for this bill."}
	ErrRoundOpen        = &Error{Code: CodeInvalidState, Reason: "round_open", Message: "Voting is already open for this bill."}
	ErrNotPending       = &Error{Code: CodeInvalidState, Reason: "not_pending", Message: "This bill is no longer awaiting review."}
	ErrNotApprover      = &Error{Code: CodeUnauthorized, Reason: "not_approver", Message: "Only the approver can do that."}
	ErrNotMember        = &Error{Code: CodeUnauthorized, Reason: "not_member", Message: "You are not a member of this chamber."}
	ErrNotEligible      = &Error{Code: CodeUnauthorized, Reason: "not_eligible", Message: "You are not eligible to vote on this bill."}
)

// BillNotFound reports an unknown reference number.
func BillNotFound(ref string) *Error {
	return &Error{Code: CodeNotFound, Reason: "bill", Message: "Bill " + ref + " not found."}
}

// InvalidArgument reports malformed input.
func InvalidArgument(msg string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: msg}
}
