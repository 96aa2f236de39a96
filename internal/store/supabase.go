package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
	"github.com/MuhammadMuneeeb/Recruitement/internal/scoring"
)

const interviewsTable = "interviews"

// SupabaseStore persists sessions in a Supabase Postgres table. Conversation
// history, checks and feedback are stored as JSON columns, mirroring the
// row shape used by the original deployment.
type SupabaseStore struct {
	client *supabase.Client
}

// NewSupabaseStore connects to a Supabase project.
func NewSupabaseStore(projectURL, serviceKey string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(projectURL, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

type sessionRow struct {
	Token            string  `json:"token"`
	CandidateName    string  `json:"candidate_name"`
	CandidateEmail   string  `json:"candidate_email"`
	RoleTitle        string  `json:"role_title"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"created_at"`
	StartedAt        *string `json:"started_at,omitempty"`
	CompletedAt      *string `json:"completed_at,omitempty"`
	ChecksJSON       string  `json:"checks_json,omitempty"`
	ConversationJSON string  `json:"conversation_json,omitempty"`
	Transcript       string  `json:"transcript,omitempty"`
	FeedbackJSON     string  `json:"ai_feedback_json,omitempty"`
}

func rowFromSession(s Session) (sessionRow, error) {
	conv, err := MarshalConversation(s.Conversation)
	if err != nil {
		return sessionRow{}, err
	}
	row := sessionRow{
		Token:            s.Token,
		CandidateName:    s.CandidateName,
		CandidateEmail:   s.CandidateEmail,
		RoleTitle:        s.RoleTitle,
		Status:           string(s.Status),
		CreatedAt:        s.CreatedAt.UTC().Format(time.RFC3339),
		ConversationJSON: conv,
		Transcript:       s.Transcript,
	}
	if s.Checks != nil {
		b, err := json.Marshal(s.Checks)
		if err != nil {
			return sessionRow{}, err
		}
		row.ChecksJSON = string(b)
	}
	if s.Feedback != nil {
		b, err := json.Marshal(s.Feedback)
		if err != nil {
			return sessionRow{}, err
		}
		row.FeedbackJSON = string(b)
	}
	if s.StartedAt != nil {
		ts := s.StartedAt.UTC().Format(time.RFC3339)
		row.StartedAt = &ts
	}
	if s.CompletedAt != nil {
		ts := s.CompletedAt.UTC().Format(time.RFC3339)
		row.CompletedAt = &ts
	}
	return row, nil
}

func (r sessionRow) toSession() (Session, error) {
	s := Session{
		Token:          r.Token,
		CandidateName:  r.CandidateName,
		CandidateEmail: r.CandidateEmail,
		RoleTitle:      r.RoleTitle,
		Status:         Status(r.Status),
		Transcript:     r.Transcript,
	}
	if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		s.CreatedAt = t
	}
	if r.StartedAt != nil {
		if t, err := time.Parse(time.RFC3339, *r.StartedAt); err == nil {
			s.StartedAt = &t
		}
	}
	if r.CompletedAt != nil {
		if t, err := time.Parse(time.RFC3339, *r.CompletedAt); err == nil {
			s.CompletedAt = &t
		}
	}
	turns, err := UnmarshalConversation(r.ConversationJSON)
	if err != nil {
		return Session{}, fmt.Errorf("decode conversation for %s: %w", r.Token, err)
	}
	s.Conversation = turns
	if r.ChecksJSON != "" {
		var checks Checks
		if err := json.Unmarshal([]byte(r.ChecksJSON), &checks); err == nil {
			s.Checks = &checks
		}
	}
	if r.FeedbackJSON != "" {
		var fb scoring.Feedback
		if err := json.Unmarshal([]byte(r.FeedbackJSON), &fb); err == nil {
			s.Feedback = &fb
		}
	}
	return s, nil
}

func (s *SupabaseStore) Create(sess Session) error {
	row, err := rowFromSession(sess)
	if err != nil {
		return err
	}
	_, _, err = s.client.From(interviewsTable).Insert(row, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	return nil
}

func (s *SupabaseStore) Read(token string) (Session, error) {
	data, _, err := s.client.From(interviewsTable).
		Select("*", "", false).
		Eq("token", token).
		Single().
		Execute()
	if err != nil {
		return Session{}, ErrNotFound
	}
	var row sessionRow
	if err := json.Unmarshal(data, &row); err != nil {
		return Session{}, fmt.Errorf("decode interview row: %w", err)
	}
	return row.toSession()
}

func (s *SupabaseStore) List() ([]Session, error) {
	data, _, err := s.client.From(interviewsTable).
		Select("*", "", false).
		Order("created_at", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	var rows []sessionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode interview rows: %w", err)
	}
	out := make([]Session, 0, len(rows))
	for _, r := range rows {
		sess, err := r.toSession()
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

// AppendTurns reads the current conversation and writes it back with the new
// turns. The server serializes writers per token, so the read-modify-write
// is safe for this access pattern.
func (s *SupabaseStore) AppendTurns(token string, turns ...interview.Turn) error {
	sess, err := s.Read(token)
	if err != nil {
		return err
	}
	conv, err := MarshalConversation(append(sess.Conversation, turns...))
	if err != nil {
		return err
	}
	_, _, err = s.client.From(interviewsTable).
		Update(map[string]any{"conversation_json": conv}, "", "").
		Eq("token", token).
		Execute()
	if err != nil {
		return fmt.Errorf("append turns: %w", err)
	}
	return nil
}

func (s *SupabaseStore) MarkStarted(token string, checks Checks, opening []interview.Turn) error {
	sess, err := s.Read(token)
	if err != nil {
		return err
	}
	if sess.Status == StatusCompleted {
		return ErrConflict
	}
	conv, err := MarshalConversation(append(sess.Conversation, opening...))
	if err != nil {
		return err
	}
	checksJSON, err := json.Marshal(checks)
	if err != nil {
		return err
	}
	_, _, err = s.client.From(interviewsTable).
		Update(map[string]any{
			"status":            string(StatusInProgress),
			"started_at":        time.Now().UTC().Format(time.RFC3339),
			"checks_json":       string(checksJSON),
			"conversation_json": conv,
		}, "", "").
		Eq("token", token).
		Execute()
	if err != nil {
		return fmt.Errorf("mark started: %w", err)
	}
	return nil
}

func (s *SupabaseStore) MarkCompleted(token string, transcript string, feedback scoring.Feedback) error {
	fb, err := json.Marshal(feedback)
	if err != nil {
		return err
	}
	_, _, err = s.client.From(interviewsTable).
		Update(map[string]any{
			"status":           string(StatusCompleted),
			"completed_at":     time.Now().UTC().Format(time.RFC3339),
			"transcript":       transcript,
			"ai_feedback_json": string(fb),
		}, "", "").
		Eq("token", token).
		Execute()
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}
