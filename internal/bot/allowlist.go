package bot

import (
	"strconv"
	"strings"
)

// AllowList authorizes users by Telegram username or numeric id.
type AllowList struct {
	usernames map[string]struct{}
	ids       map[int64]struct{}
}

// NewAllowList accepts entries such as "alice", "@bob" or "123456".
// Usernames match case-insensitively.
func NewAllowList(entries []string) *AllowList {
	a := &AllowList{
		usernames: make(map[string]struct{}),
		ids:       make(map[int64]struct{}),
	}
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if id, err := strconv.ParseInt(entry, 10, 64); err == nil {
			a.ids[id] = struct{}{}
			continue
		}
		a.usernames[normalizeUsername(entry)] = struct{}{}
	}
	return a
}

func (a *AllowList) Authorized(userID int64, username string) bool {
	if a == nil {
		return false
	}
	if _, ok := a.ids[userID]; ok && userID != 0 {
		return true
	}
	if username == "" {
		return false
	}
	_, ok := a.usernames[normalizeUsername(username)]
	return ok
}

func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.usernames) + len(a.ids)
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@"))
}
