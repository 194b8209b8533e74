package multidev

import "strings"

// Project is the normalized owner/repository identity derived from a git
// remote URL. Two remotes refer to the same repository iff their Projects
// are equal.
type Project string

// NormalizeProject reduces a git remote URL to its Project form. The same
// repository reached over https, ssh, or an scp-style remote, with or
// without credentials or a trailing .git, normalizes to the same value.
// Normalizing an already normalized value is a no-op.
func NormalizeProject(remote string) Project {
	s := strings.TrimSpace(remote)

	urlish := false
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		urlish = true
	}

	authority := s
	if i := strings.IndexByte(s, '/'); i >= 0 {
		authority = s[:i]
	}

	// Credentials sit before an @ in the authority.
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		s = s[i+1:]
		authority = authority[i+1:]
		urlish = true
	}

	// A colon in the authority is either a port or an scp-style separator
	// (host:owner/repo).
	if i := strings.IndexByte(authority, ':'); i >= 0 {
		rest := s[i+1:]
		if j := strings.IndexByte(rest, '/'); j > 0 && isDigits(rest[:j]) {
			s = s[:i] + rest[j:]
		} else {
			s = s[:i] + "/" + rest
		}
		urlish = true
	}

	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")
	s = strings.TrimSuffix(s, "/")

	// Drop the host segment. Only inputs that carried URL syntax get this
	// treatment; an already normalized path passes through unchanged.
	if urlish {
		if parts := strings.SplitN(s, "/", 2); len(parts) == 2 &&
			strings.Contains(parts[1], "/") &&
			(strings.Contains(parts[0], ".") || parts[0] == "localhost") {
			s = parts[1]
		}
	}

	return Project(strings.ToLower(s))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
