package meeting

import (
	"net/url"
	"strings"
)

// Path is the in-app navigation target of a call.
func Path(reference string) string {
	return "/meeting/" + url.PathEscape(reference)
}

// Link builds the shareable <base>/meeting/<reference> URL. Personal rooms
// carry personal=true, which hides the end-for-everyone control.
func Link(base, reference string, personal bool) string {
	link := strings.TrimRight(base, "/") + Path(reference)
	if personal {
		link += "?personal=true"
	}
	return link
}

// ParseLink extracts the call reference from a meeting link or path. It only
// looks at the shape of the link and never checks the call exists.
func ParseLink(raw string) (reference string, personal bool, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false, false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for idx, segment := range segments {
		if segment == "meeting" && idx+1 < len(segments) && len(segments[idx+1]) > 0 {
			reference, err = url.PathUnescape(segments[idx+1])
			if err != nil {
				return "", false, false
			}
			return reference, u.Query().Get("personal") == "true", true
		}
	}
	return "", false, false
}
