package redis

import "fmt"

const keyPrefix = "flip"

// accountKey holds the Account JSON, keyed by normalized identity.
func accountKey(identity string) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, identity)
}

// accountIDIndexKey maps an account ID back to its identity.
func accountIDIndexKey(id string) string {
	return fmt.Sprintf("%s:idx:account_id:%s", keyPrefix, id)
}

func roomKey(id string) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// activeRoomsIndexKey is a ZSET of WAITING and PLAYING room IDs scored by
// creation time in microseconds.
func activeRoomsIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms_active", keyPrefix)
}

func gameKey(roomID string) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, roomID)
}

// entriesKey is a LIST of Entry JSON, newest at the head.
func entriesKey(accountID string) string {
	return fmt.Sprintf("%s:entries:%s", keyPrefix, accountID)
}

func entryKeyIndexKey(key string) string {
	return fmt.Sprintf("%s:idx:entry_key:%s", keyPrefix, key)
}
