package apperrors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind discriminates domain failures. Every kind maps to a stable code sent to clients.
type Kind int

const (
	KindInternal Kind = iota
	KindMembershipRequired
	KindOwnershipRequired
	KindInviteRequired
	KindAlreadyMember
	KindMembershipProhibited
	KindDuplicateInvite
	KindMemberAlreadyInvited
	KindProhibitedKickVote
	KindDuplicateVote
	KindChannelNotFound
	KindMemberNotFound
	KindUserNotFound
	KindFileNotFound
	KindMalformedMessage
	KindNameInvalid
	KindValidation
	KindUnauthorized
)

var kindCodes = map[Kind]string{
	KindInternal:             "INTERNAL",
	KindMembershipRequired:   "MEMBERSHIP_REQUIRED",
	KindOwnershipRequired:    "OWNERSHIP_REQUIRED",
	KindInviteRequired:       "INVITE_REQUIRED",
	KindAlreadyMember:        "ALREADY_MEMBER",
	KindMembershipProhibited: "MEMBERSHIP_PROHIBITED",
	KindDuplicateInvite:      "DUPLICATE_INVITE",
	KindMemberAlreadyInvited: "MEMBER_ALREADY_INVITED",
	KindProhibitedKickVote:   "PROHIBITED_KICK_VOTE",
	KindDuplicateVote:        "DUPLICATE_VOTE",
	KindChannelNotFound:      "CHANNEL_NOT_FOUND",
	KindMemberNotFound:       "MEMBER_NOT_FOUND",
	KindUserNotFound:         "USER_NOT_FOUND",
	KindFileNotFound:         "FILE_NOT_FOUND",
	KindMalformedMessage:     "MALFORMED_MESSAGE",
	KindNameInvalid:          "NAME_INVALID",
	KindValidation:           "VALIDATION_FAILED",
	KindUnauthorized:         "UNAUTHORIZED",
}

// Code returns the machine readable code of the kind.
func (k Kind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[KindInternal]
}

// HTTPStatus is used by the REST surface.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInternal:
		return http.StatusInternalServerError
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindChannelNotFound, KindMemberNotFound, KindUserNotFound, KindFileNotFound:
		return http.StatusNotFound
	case KindAlreadyMember, KindDuplicateInvite, KindMemberAlreadyInvited, KindDuplicateVote:
		return http.StatusConflict
	case KindMalformedMessage, KindNameInvalid, KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusForbidden
	}
}

// Error is the single tagged error type of the domain.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Kind.Code(), e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind.Code(), e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Code is shorthand for e.Kind.Code().
func (e *Error) Code() string { return e.Kind.Code() }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause that is logged but never sent to clients.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is a domain error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Kind == kind
}

// As is a thin wrapper over errors.As.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
