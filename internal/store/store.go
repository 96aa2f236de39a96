// Package store persists interview sessions addressed by invitation token.
// The server owns sessions exclusively; clients only read and append through
// the API.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
	"github.com/MuhammadMuneeeb/Recruitement/internal/scoring"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusInvited    Status = "invited"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Checks records the candidate's device check results.
type Checks struct {
	Camera     bool `json:"camera"`
	Microphone bool `json:"microphone"`
}

// Session is one interview from invitation to completion. Conversation
// order is significant: it is the dialogue history the policy engine reads.
type Session struct {
	Token          string            `json:"token"`
	CandidateName  string            `json:"candidateName"`
	CandidateEmail string            `json:"candidateEmail"`
	RoleTitle      string            `json:"roleTitle"`
	Status         Status            `json:"status"`
	Checks         *Checks           `json:"checks,omitempty"`
	Conversation   []interview.Turn  `json:"conversation"`
	Transcript     string            `json:"transcript,omitempty"`
	Feedback       *scoring.Feedback `json:"feedback,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	StartedAt      *time.Time        `json:"startedAt,omitempty"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
}

// ErrNotFound is returned when no session exists for a token.
var ErrNotFound = fmt.Errorf("interview not found")

// ErrConflict is returned for lifecycle transitions that are not allowed
// from the session's current status.
var ErrConflict = fmt.Errorf("interview is not in the required state")

// Store is the persistence contract the server depends on. Per-token
// operations are atomic relative to that session.
type Store interface {
	Create(s Session) error
	Read(token string) (Session, error)
	List() ([]Session, error)
	AppendTurns(token string, turns ...interview.Turn) error
	MarkStarted(token string, checks Checks, opening []interview.Turn) error
	MarkCompleted(token string, transcript string, feedback scoring.Feedback) error
}

// MemoryStore keeps sessions in process memory. It backs tests and
// single-node deployments without Supabase configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Create(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.Token]; exists {
		return fmt.Errorf("token %q already exists: %w", s.Token, ErrConflict)
	}
	cp := cloneSession(s)
	m.sessions[s.Token] = &cp
	return nil
}

func (m *MemoryStore) Read(token string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return cloneSession(*s), nil
}

func (m *MemoryStore) List() ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, cloneSession(*s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) AppendTurns(token string, turns ...interview.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return ErrNotFound
	}
	if s.Status != StatusInProgress {
		return ErrConflict
	}
	s.Conversation = append(s.Conversation, turns...)
	return nil
}

func (m *MemoryStore) MarkStarted(token string, checks Checks, opening []interview.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return ErrNotFound
	}
	if s.Status != StatusInvited {
		return ErrConflict
	}
	now := time.Now()
	s.Status = StatusInProgress
	s.StartedAt = &now
	s.Checks = &checks
	s.Conversation = append(s.Conversation, opening...)
	return nil
}

func (m *MemoryStore) MarkCompleted(token string, transcript string, feedback scoring.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return ErrNotFound
	}
	if s.Status != StatusInProgress {
		return ErrConflict
	}
	now := time.Now()
	s.Status = StatusCompleted
	s.CompletedAt = &now
	s.Transcript = transcript
	s.Feedback = &feedback
	return nil
}

func cloneSession(s Session) Session {
	cp := s
	cp.Conversation = append([]interview.Turn(nil), s.Conversation...)
	if s.Checks != nil {
		checks := *s.Checks
		cp.Checks = &checks
	}
	if s.Feedback != nil {
		fb := *s.Feedback
		cp.Feedback = &fb
	}
	return cp
}

// MarshalConversation encodes a conversation for row storage.
func MarshalConversation(turns []interview.Turn) (string, error) {
	b, err := json.Marshal(turns)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalConversation decodes a stored conversation; empty input yields an
// empty history rather than an error.
func UnmarshalConversation(raw string) ([]interview.Turn, error) {
	if raw == "" {
		return nil, nil
	}
	var turns []interview.Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, err
	}
	return turns, nil
}
