package team

import (
	"net/url"
	"strings"
)

// InviteCode extracts the code from an invite link. Anything that isn't a
// link is returned trimmed.
func InviteCode(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "invite_code=") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	if code := u.Query().Get("invite_code"); code != "" {
		return code
	}
	return s
}
