package apperrors

import "fmt"

func MembershipRequired(action string) *Error {
	return Newf(KindMembershipRequired, "You must be a member of the channel to %s.", action)
}

func OwnershipRequired(action string) *Error {
	return Newf(KindOwnershipRequired, "You must be an owner of the channel to %s.", action)
}

func InviteRequired(action string) *Error {
	return Newf(KindInviteRequired, "You must be invited to %s.", action)
}

func AlreadyMember(action string) *Error {
	return Newf(KindAlreadyMember, "You cannot %s you are already a member of.", action)
}

func MembershipProhibited(action string) *Error {
	return Newf(KindMembershipProhibited, "You have been removed from this channel and cannot %s until the owner invites you.", action)
}

func DuplicateInvite() *Error {
	return New(KindDuplicateInvite, "This user has already been invited to the channel.")
}

func MemberAlreadyInvited(nick string) *Error {
	return Newf(KindMemberAlreadyInvited, "User %s already has a pending invite to this channel.", nick)
}

func ProhibitedKickVote(target string) *Error {
	return Newf(KindProhibitedKickVote, "You cannot vote to kick %s.", target)
}

func DuplicateVote() *Error {
	return New(KindDuplicateVote, "You have already voted to kick this member.")
}

func ChannelNotFound() *Error {
	return New(KindChannelNotFound, "Channel has not been found.")
}

func MemberNotFound() *Error {
	return New(KindMemberNotFound, "Member has not been found.")
}

func UserNotFound() *Error {
	return New(KindUserNotFound, "User has not been found.")
}

func FileNotFound() *Error {
	return New(KindFileNotFound, "File has not been found.")
}

func MalformedMessage(reason string) *Error {
	return Newf(KindMalformedMessage, "Incorrect message format: %s.", reason)
}

func NameInvalid(reason string) *Error {
	return Newf(KindNameInvalid, "Invalid channel name: %s.", reason)
}

func Validation(details string) *Error {
	return Newf(KindValidation, "Validation failed: %s", details)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// Internal hides the cause from clients and keeps it for logs.
func Internal(err error) *Error {
	return Wrap(err, KindInternal, "internal error")
}

// NameLength builds the NameInvalid error for a length violation.
func NameLength(min, max int) *Error {
	return NameInvalid(fmt.Sprintf("must be between %d and %d characters", min, max))
}

func TargetAlreadyMember(nick string) *Error {
	return Newf(KindAlreadyMember, "User %s is already a member of the channel.", nick)
}
