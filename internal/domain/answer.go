package domain

import "time"

// Answer is the result of one retrieval-augmented query: the generated
// text plus the concatenated supporting context it was produced from.
// Answers are transient; they are never cached or re-served.
type Answer struct {
	Text    string
	Context string
	Sources []string
}

// Exchange is one question/answer pair kept in a session's history.
type Exchange struct {
	Question string
	Answer   string
	AskedAt  time.Time
}

// Feedback is a user's rating of a generated answer.
type Feedback struct {
	ID        string
	Question  string
	Answer    string
	Helpful   bool
	CreatedAt time.Time
}
