package handler

import (
	"context"

	"github.com/mcoot/sharedlist-go/internal/api/middleware"
	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/services/access"
	"github.com/mcoot/sharedlist-go/internal/services/guestlink"
)

// resolveRole determines the caller's effective role for a list. A caller
// who arrived through a guest link is always a guest for that link's list,
// even if their handle is registered as an admin elsewhere; a guest link
// pointing at a different list is treated as invalid.
func resolveRole(
	ctx context.Context,
	accessService *access.Service,
	guestLinkService *guestlink.Service,
	listID model.ListID,
	caller *middleware.Caller,
) (model.Role, error) {
	if caller.ViaGuestLink() {
		linkList, err := guestLinkService.Validate(ctx, caller.GuestLink)
		if err != nil {
			return "", err
		}
		if linkList != listID {
			return "", model.ErrInvalidGuestLink
		}
		return model.RoleGuest, nil
	}

	return accessService.ResolveRole(ctx, listID, caller.Handle)
}
