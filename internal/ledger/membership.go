package ledger

import (
	"github.com/mmynk/gopayurself/internal/apperr"
	"github.com/mmynk/gopayurself/internal/calculator"
	"github.com/mmynk/gopayurself/internal/models"
)

// RequireMember fails unless userID is the owner or an invited member.
func RequireMember(group *models.Group, userID string) error {
	if !group.IsMember(userID) {
		return apperr.Forbidden(apperr.NotMember, "you are not a member of this group")
	}
	return nil
}

// RequireOwner fails unless userID owns the group.
func RequireOwner(group *models.Group, userID string) error {
	if !group.IsOwner(userID) {
		return apperr.Forbidden(apperr.NotOwner, "only the owner can do this")
	}
	return nil
}

// CheckMemberAddition allows the owner to invite someone who is not yet a member.
func CheckMemberAddition(group *models.Group, requester, member string) error {
	if err := RequireOwner(group, requester); err != nil {
		return err
	}
	if group.IsMember(member) {
		return apperr.Validation(apperr.AlreadyMember, "user is already a member of this group")
	}
	return nil
}

// CheckMemberRemoval applies the removal rules: only the owner removes, the
// owner is never removed, at least one invited member must remain, and the
// member must be settled up.
func CheckMemberRemoval(group *models.Group, balances calculator.Balances, requester, member string) error {
	if err := RequireOwner(group, requester); err != nil {
		return err
	}
	if group.IsOwner(member) {
		return apperr.Validation(apperr.OwnerRemoval, "the owner cannot be removed")
	}
	if !group.IsMember(member) {
		return apperr.Validation(apperr.NonMember, "user is not a member of this group")
	}
	if len(group.Members) <= 1 {
		return apperr.Validation(apperr.LastMember, "a group needs at least one member besides the owner")
	}
	if b := balances.Of(member); b != 0 {
		return apperr.Validation(apperr.OutstandingBalance, "member has an outstanding balance of %s", b)
	}
	return nil
}
