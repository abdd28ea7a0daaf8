package redis

import (
	"fmt"

	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/storage"
)

// Key prefix for all list-related data
const keyPrefix = "sharedlist"

// listMetaKey returns the Redis key for a list's metadata
func listMetaKey(id model.ListID) string {
	return fmt.Sprintf("%s:list:%s:meta", keyPrefix, id)
}

// todoKey returns the Redis key for a Todo
func todoKey(listID model.ListID, id model.TodoID) string {
	return fmt.Sprintf("%s:todo:%s:%s", keyPrefix, listID, id)
}

// todosIndexKey returns the Redis key for the SET of todos in a list
func todosIndexKey(listID model.ListID) string {
	return fmt.Sprintf("%s:idx:todos:%s", keyPrefix, listID)
}

// presenceKey returns the Redis key for a participant's Presence record
func presenceKey(listID model.ListID, handle model.ParticipantHandle) string {
	return fmt.Sprintf("%s:presence:%s:%s", keyPrefix, listID, handle)
}

// presenceIndexKey returns the Redis key for the SET of presence records in a list
func presenceIndexKey(listID model.ListID) string {
	return fmt.Sprintf("%s:idx:presence:%s", keyPrefix, listID)
}

// adminKey returns the Redis key for an Admin record
func adminKey(listID model.ListID, handle model.ParticipantHandle) string {
	return fmt.Sprintf("%s:admin:%s:%s", keyPrefix, listID, handle)
}

// adminsIndexKey returns the Redis key for the SET of admins in a list
func adminsIndexKey(listID model.ListID) string {
	return fmt.Sprintf("%s:idx:admins:%s", keyPrefix, listID)
}

// passwordKey returns the Redis key for one tier's password value.
// Password value and enabled flag live at separate keys on purpose: each
// tier update is two independent point writes, matching the replicated
// store the engine is specified against.
func passwordKey(listID model.ListID, tier model.PasswordTier) string {
	return fmt.Sprintf("%s:list:%s:password:%s", keyPrefix, listID, tier)
}

// passwordEnabledKey returns the Redis key for one tier's enabled flag
func passwordEnabledKey(listID model.ListID, tier model.PasswordTier) string {
	return fmt.Sprintf("%s:list:%s:password_enabled:%s", keyPrefix, listID, tier)
}

// guestLinkKey returns the Redis key for a GuestLink. Links are keyed
// globally by id so the guest entry path can resolve a bare link id.
func guestLinkKey(id model.GuestLinkID) string {
	return fmt.Sprintf("%s:guestlink:%s", keyPrefix, id)
}

// guestLinksIndexKey returns the Redis key for the SET of guest links for a list
func guestLinksIndexKey(listID model.ListID) string {
	return fmt.Sprintf("%s:idx:guestlinks:%s", keyPrefix, listID)
}

// watchChannel returns the pub/sub channel for a list subtree
func watchChannel(listID model.ListID, scope storage.WatchScope) string {
	return fmt.Sprintf("%s:watch:%s:%s", keyPrefix, listID, scope)
}
