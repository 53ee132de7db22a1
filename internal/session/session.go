// Package session tracks the single active summary request: which file it is
// for, whether it is still loading, and its result or failure text.
package session

import (
	"fmt"
	"strings"
	"sync"
)

type State int

const (
	Idle State = iota
	Loading
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Token identifies one summary request. Tokens grow with every Begin.
type Token uint64

const genericFailure = "summary generation failed"

var remediationHints = []string{
	"the summarization service is running and reachable",
	"the file exists in storage",
	"the file is a valid PDF document",
}

// Snapshot is a read-only copy of the session.
type Snapshot struct {
	State          State  `json:"state"`
	TargetFilename string `json:"target_filename"`
	Visible        bool   `json:"visible"`
	Loading        bool   `json:"loading"`
	ResultText     string `json:"result_text,omitempty"`
	ErrorText      string `json:"error_text,omitempty"`
	Token          Token  `json:"token"`
}

type Option func(*Session)

// DiscardStale makes completions of superseded requests no-ops. Without it
// the last completion to arrive wins, even for an older request.
func DiscardStale(enabled bool) Option {
	return func(s *Session) {
		s.discardStale = enabled
	}
}

type Session struct {
	mu           sync.Mutex
	state        State
	target       string
	result       string
	errText      string
	current      Token
	dismissed    Token
	discardStale bool
}

func New(opts ...Option) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin moves the session to Loading for filename and returns the token the
// completion must present.
func (s *Session) Begin(filename string) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current++
	s.state = Loading
	s.target = filename
	s.result = ""
	s.errText = ""
	return s.current
}

// Resolve applies a successful completion. It reports whether the session
// changed.
func (s *Session) Resolve(tok Token, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptsLocked(tok) {
		return false
	}
	s.state = Resolved
	s.result = text
	s.errText = ""
	return true
}

// Fail applies a failed completion with a message already formatted for
// display.
func (s *Session) Fail(tok Token, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptsLocked(tok) {
		return false
	}
	s.state = Failed
	s.errText = message
	s.result = ""
	return true
}

// Dismiss returns the session to Idle. Requests started before the dismissal
// can no longer change it.
func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Idle
	s.target = ""
	s.result = ""
	s.errText = ""
	s.dismissed = s.current
}

// IsCurrent reports whether tok belongs to the most recent request.
func (s *Session) IsCurrent(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tok == s.current && s.state != Idle
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		State:          s.state,
		TargetFilename: s.target,
		Visible:        s.state != Idle,
		Loading:        s.state == Loading,
		ResultText:     s.result,
		ErrorText:      s.errText,
		Token:          s.current,
	}
}

func (s *Session) acceptsLocked(tok Token) bool {
	if tok == 0 || tok > s.current || tok <= s.dismissed || s.state == Idle {
		return false
	}
	if s.discardStale && tok != s.current {
		return false
	}
	return true
}

// FailureText renders the failure shown in the summary overlay: the
// underlying detail, or a generic message, followed by remediation hints.
func FailureText(detail string) string {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		detail = genericFailure
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n\nPlease check that:", detail)
	for _, hint := range remediationHints {
		b.WriteString("\n- ")
		b.WriteString(hint)
	}
	return b.String()
}
