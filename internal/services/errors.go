package services

import "errors"

// Sentinel errors callers branch on. Invitation redemption checks are
// applied in this order: already used, then expired, then already a member.
var (
	ErrInvitationUsed    = errors.New("invitation has already been used")
	ErrInvitationExpired = errors.New("invitation has expired")
	ErrAlreadyMember     = errors.New("you are already a member of this study plan")
	ErrForbidden         = errors.New("you do not have access to this study plan")
	ErrOwnerOnly         = errors.New("only the owner can delete a study plan")
	ErrTaskNotFound      = errors.New("task not found")
)
