package multidev

import (
	"regexp"
	"strconv"
)

var (
	ciRe       = regexp.MustCompile(`^ci-`)
	prRe       = regexp.MustCompile(`^pr-`)
	prNumberRe = regexp.MustCompile(`^pr-(\d+)$`)
)

// Pattern selects the transient environments one deletion flow operates on.
type Pattern struct {
	label string
	re    *regexp.Regexp
}

// CIPattern matches transient continuous-integration builds (ci-*).
func CIPattern() Pattern { return Pattern{label: "ci-", re: ciRe} }

// PRPattern matches pull request builds (pr-*).
func PRPattern() Pattern { return Pattern{label: "pr-", re: prRe} }

// Match reports whether an environment id belongs to this pattern.
func (p Pattern) Match(id string) bool { return p.re != nil && p.re.MatchString(id) }

// String returns the user-facing form of the pattern.
func (p Pattern) String() string { return p.label }

// PullRequestNumber extracts the pull request number from a pr-<n>
// environment id. Ids that do not encode a number return ok=false.
func PullRequestNumber(id string) (int, bool) {
	m := prNumberRe.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
