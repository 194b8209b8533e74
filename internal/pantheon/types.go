package pantheon

import "time"

// Environment is one multidev environment on a site.
type Environment struct {
	ID        string
	CreatedAt time.Time
}

// BuildMetadata records how a build environment was created. It is written
// by the CI workflow at deploy time and read back to verify which repository
// an environment belongs to.
type BuildMetadata struct {
	URL        string `json:"url"`
	Ref        string `json:"ref"`
	SHA        string `json:"sha"`
	Comment    string `json:"comment"`
	CommitDate string `json:"commit-date"`
	BuildDate  string `json:"build-date"`
}

// Session is the result of exchanging a machine token.
type Session struct {
	Token     string `json:"session"`
	UserID    string `json:"user_id"`
	ExpiresAt int64  `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return s == nil || time.Now().Unix() >= s.ExpiresAt
}

// User is the authenticated platform user.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Profile struct {
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
	} `json:"profile"`
}

// Workflow is an asynchronous platform operation. Result stays empty while
// the workflow is running.
type Workflow struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Result string `json:"result"`
	Reason string `json:"reason"`
}

// Finished reports whether the workflow has reached a terminal state.
func (w *Workflow) Finished() bool { return w.Result != "" }

// Succeeded reports whether the workflow finished successfully.
func (w *Workflow) Succeeded() bool { return w.Result == "succeeded" }
