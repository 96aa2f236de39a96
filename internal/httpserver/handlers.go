package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
	"github.com/MuhammadMuneeeb/Recruitement/internal/store"
	"github.com/MuhammadMuneeeb/Recruitement/internal/telemetry"
)

func (s *Server) health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) aiStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"model":   s.deps.ModelActive,
		"profile": s.deps.Profile.Name,
	})
}

func (s *Server) turnLatency(c echo.Context) error {
	var rec telemetry.TurnLatency
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid telemetry payload")
	}
	log.Printf("[telemetry] token=%s profile=%s capture=%dms response=%dms synth=%dms total=%dms fallback=%v",
		rec.Token, rec.Profile, rec.CaptureMs, rec.ResponseMs, rec.SynthesisMs, rec.TotalMs, rec.UsedFallback)
	return c.NoContent(http.StatusAccepted)
}

// maxTTSChars bounds proxied synthesis text; longer prompts are truncated
// rather than rejected so a runaway model turn still gets voiced.
const maxTTSChars = 600

type ttsRequest struct {
	Text string         `json:"text"`
	Lang interview.Lang `json:"lang"`
}

func (s *Server) synthesize(c echo.Context) error {
	var req ttsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tts payload")
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	if runes := []rune(req.Text); len(runes) > maxTTSChars {
		req.Text = string(runes[:maxTTSChars])
	}
	if req.Lang == "" {
		req.Lang = interview.DetectLang(req.Text)
	}

	if wav := s.clips.Get(req.Text, req.Lang); wav != nil {
		return c.Blob(http.StatusOK, "audio/wav", wav)
	}
	for _, synth := range s.deps.Synths {
		if !synth.Supports(req.Lang) {
			continue
		}
		wav, err := synth.Synthesize(c.Request().Context(), req.Text, req.Lang)
		if err != nil {
			log.Printf("[voice.tts] %s failed: %v", synth.Name(), err)
			continue
		}
		s.clips.Put(req.Text, req.Lang, wav)
		return c.Blob(http.StatusOK, "audio/wav", wav)
	}
	return echo.NewHTTPError(http.StatusBadGateway, "no synthesizer available")
}

type createRequest struct {
	CandidateName  string `json:"candidateName"`
	CandidateEmail string `json:"candidateEmail"`
	CandidatePhone string `json:"candidatePhone"`
	RoleTitle      string `json:"roleTitle"`
}

func (s *Server) createInterview(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid create payload")
	}
	req.CandidateName = strings.TrimSpace(req.CandidateName)
	req.RoleTitle = strings.TrimSpace(req.RoleTitle)
	if req.CandidateName == "" || req.RoleTitle == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "candidateName and roleTitle are required")
	}

	session := store.Session{
		Token:          uuid.NewString(),
		CandidateName:  req.CandidateName,
		CandidateEmail: strings.TrimSpace(req.CandidateEmail),
		RoleTitle:      req.RoleTitle,
		Status:         store.StatusInvited,
		CreatedAt:      time.Now(),
	}
	if err := s.deps.Store.Create(session); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create interview")
	}

	link := s.deps.InviteCfg.InterviewLink(session.Token)
	if phone := strings.TrimSpace(req.CandidatePhone); phone != "" && s.deps.Invites != nil {
		if err := s.deps.Invites.SendInvite(phone, session.CandidateName, session.RoleTitle, link); err != nil {
			log.Printf("[invite] send failed for %s: %v", session.Token, err)
		}
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"token": session.Token,
		"link":  link,
	})
}

func (s *Server) getInterview(c echo.Context) error {
	session, err := s.deps.Store.Read(c.Param("token"))
	if err != nil {
		return notFoundOr(err)
	}
	// Candidate view: feedback stays recruiter-only.
	session.Feedback = nil
	return c.JSON(http.StatusOK, session)
}

type startRequest struct {
	Checks        store.Checks   `json:"checks"`
	PreferredLang interview.Lang `json:"preferredLang"`
}

func (s *Server) startInterview(c echo.Context) error {
	token := c.Param("token")
	unlock := s.locks.locked(token)
	defer unlock()

	var req startRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start payload")
	}
	lang := req.PreferredLang
	if !interview.ValidLang(lang) {
		lang = interview.LangMix
	}

	session, err := s.deps.Store.Read(token)
	if err != nil {
		return notFoundOr(err)
	}
	if session.Status == store.StatusCompleted {
		return echo.NewHTTPError(http.StatusConflict, "interview already completed")
	}
	if session.Status == store.StatusInProgress {
		// Re-entry after an agent crash resumes with the stored history.
		return c.JSON(http.StatusOK, map[string]any{"turns": session.Conversation, "resumed": true})
	}

	opening := interview.OpeningFor(session.CandidateName, session.RoleTitle, lang)
	turns := opening.Turns()
	if err := s.deps.Store.MarkStarted(token, req.Checks, turns); err != nil {
		return conflictOr(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"turns": turns})
}

type respondRequest struct {
	Answer        string         `json:"answer"`
	PreferredLang interview.Lang `json:"preferredLang"`
}

type respondResponse struct {
	Done bool           `json:"done"`
	Kind interview.Kind `json:"kind"`
	Text string         `json:"text"`
	Lang interview.Lang `json:"lang"`
}

func (s *Server) respond(c echo.Context) error {
	token := c.Param("token")
	unlock := s.locks.locked(token)
	defer unlock()

	var req respondRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid respond payload")
	}
	lang := req.PreferredLang
	if !interview.ValidLang(lang) {
		lang = interview.LangMix
	}

	session, err := s.deps.Store.Read(token)
	if err != nil {
		return notFoundOr(err)
	}
	if session.Status != store.StatusInProgress {
		return echo.NewHTTPError(http.StatusConflict, "interview is not in progress")
	}

	answer := strings.TrimSpace(req.Answer)
	candidateTurn := interview.Turn{
		Speaker:   interview.SpeakerCandidate,
		Kind:      interview.KindAnswer,
		Text:      answer,
		Lang:      interview.DetectLang(answer),
		Timestamp: time.Now(),
	}

	next, err := s.deps.Engine.NextTurn(c.Request().Context(), interview.Request{
		Conversation:  session.Conversation,
		Answer:        answer,
		RoleTitle:     session.RoleTitle,
		PreferredLang: lang,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	if err := s.deps.Store.AppendTurns(token, candidateTurn, next); err != nil {
		return conflictOr(err)
	}
	return c.JSON(http.StatusOK, respondResponse{
		Done: next.Done,
		Kind: next.Kind,
		Text: next.Text,
		Lang: next.Lang,
	})
}

func (s *Server) submit(c echo.Context) error {
	token := c.Param("token")
	unlock := s.locks.locked(token)
	defer unlock()

	session, err := s.deps.Store.Read(token)
	if err != nil {
		return notFoundOr(err)
	}
	if session.Status == store.StatusCompleted {
		return c.JSON(http.StatusOK, map[string]any{"status": session.Status})
	}
	if session.Status != store.StatusInProgress {
		return echo.NewHTTPError(http.StatusConflict, "interview was never started")
	}

	transcript := interview.BuildTranscript(session.Conversation)
	feedback := s.deps.Scorer.Generate(c.Request().Context(), session.RoleTitle, transcript)
	if err := s.deps.Store.MarkCompleted(token, transcript, feedback); err != nil {
		return conflictOr(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": store.StatusCompleted})
}

func (s *Server) requireAccessKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.deps.AccessKey != "" && c.Request().Header.Get("X-Access-Key") != s.deps.AccessKey {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access key")
		}
		return next(c)
	}
}

func (s *Server) listInterviews(c echo.Context) error {
	sessions, err := s.deps.Store.List()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list interviews")
	}
	type row struct {
		Token         string       `json:"token"`
		CandidateName string       `json:"candidateName"`
		RoleTitle     string       `json:"roleTitle"`
		Status        store.Status `json:"status"`
		Score         *int         `json:"score,omitempty"`
		CreatedAt     time.Time    `json:"createdAt"`
	}
	rows := make([]row, 0, len(sessions))
	for _, s := range sessions {
		r := row{
			Token:         s.Token,
			CandidateName: s.CandidateName,
			RoleTitle:     s.RoleTitle,
			Status:        s.Status,
			CreatedAt:     s.CreatedAt,
		}
		if s.Feedback != nil {
			score := s.Feedback.Score
			r.Score = &score
		}
		rows = append(rows, r)
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) interviewDetail(c echo.Context) error {
	session, err := s.deps.Store.Read(c.Param("token"))
	if err != nil {
		return notFoundOr(err)
	}
	return c.JSON(http.StatusOK, session)
}

func notFoundOr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "interview not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func conflictOr(err error) error {
	if errors.Is(err, store.ErrConflict) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "interview not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
