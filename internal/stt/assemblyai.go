// Package stt adapts the AssemblyAI realtime websocket API to the speech
// recognizer contract used by the capture machine.
package stt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MuhammadMuneeeb/Recruitement/internal/speech"
)

const defaultEndpoint = "wss://streaming.assemblyai.com/v3/ws"

// AssemblyAI opens streaming recognition sessions. One microphone feed is
// shared across sessions: Feed forwards frames to whichever session is live.
type AssemblyAI struct {
	APIKey   string
	Endpoint string

	mu   sync.Mutex
	live *session
}

func New(apiKey string) *AssemblyAI {
	return &AssemblyAI{APIKey: apiKey, Endpoint: defaultEndpoint}
}

// Feed accepts one capture frame of 16-bit mono PCM. Safe to call with no
// session open; frames are dropped.
func (a *AssemblyAI) Feed(frame []int16) {
	a.mu.Lock()
	s := a.live
	a.mu.Unlock()
	if s == nil {
		return
	}
	buf := make([]byte, len(frame)*2)
	for i, v := range frame {
		binary.LittleEndian.PutUint16(buf[i*2:(i+1)*2], uint16(v))
	}
	s.sendAudio(buf)
}

// Start dials a recognition stream for the locale. Any previous live
// session stops receiving audio.
func (a *AssemblyAI) Start(locale string) (speech.Session, error) {
	if a.APIKey == "" {
		return nil, fmt.Errorf("assemblyai api key is empty")
	}
	endpoint := a.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	params := url.Values{}
	params.Set("sample_rate", "16000")
	params.Set("encoding", "pcm_s16le")
	params.Set("format_turns", "false")
	params.Set("language", locale)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	headers := map[string][]string{"Authorization": {a.APIKey}}
	conn, resp, err := dialer.Dial(endpoint+"?"+params.Encode(), headers)
	if err != nil {
		if resp != nil {
			log.Printf("[stt] assemblyai dial failed, status=%d", resp.StatusCode)
		}
		return nil, fmt.Errorf("connect assemblyai: %w", err)
	}

	s := &session{
		conn:   conn,
		events: make(chan speech.Event, 100),
		audio:  make(chan []byte, 1000),
		stopCh: make(chan struct{}),
	}
	go s.readLoop()
	go s.writeLoop()

	a.mu.Lock()
	a.live = s
	a.mu.Unlock()
	log.Printf("[stt] assemblyai session open locale=%s", locale)
	return s, nil
}

type session struct {
	conn   *websocket.Conn
	events chan speech.Event
	audio  chan []byte

	stopOnce sync.Once
	stopCh   chan struct{}
}

func (s *session) Events() <-chan speech.Event { return s.events }

func (s *session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		_ = s.conn.WriteJSON(map[string]string{"type": "Terminate"})
		_ = s.conn.Close()
	})
}

func (s *session) sendAudio(pcm []byte) {
	select {
	case <-s.stopCh:
	case s.audio <- pcm:
	default:
		log.Println("[stt] audio buffer full, dropping packet")
	}
}

func (s *session) writeLoop() {
	for {
		select {
		case <-s.stopCh:
			return
		case pcm := <-s.audio:
			if err := s.conn.WriteMessage(websocket.BinaryMessage, pcm); err != nil {
				log.Printf("[stt] send audio: %v", err)
				return
			}
		}
	}
}

type beginMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	ExpiresAt int64  `json:"expires_at"`
}

type turnMessage struct {
	Type       string  `json:"type"`
	Transcript string  `json:"transcript"`
	EndOfTurn  bool    `json:"end_of_turn"`
	Confidence float64 `json:"end_of_turn_confidence"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (s *session) readLoop() {
	defer close(s.events)
	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.stopCh:
			default:
				s.emit(speech.Event{Kind: speech.EventError, Err: err.Error()})
			}
			return
		}
		s.processMessage(message)
	}
}

func (s *session) processMessage(message []byte) {
	var base map[string]any
	if err := json.Unmarshal(message, &base); err != nil {
		log.Printf("[stt] unmarshal message: %v", err)
		return
	}
	msgType, _ := base["type"].(string)
	switch msgType {
	case "Begin":
		var msg beginMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			log.Printf("[stt] session began id=%s expires=%s",
				msg.ID, time.Unix(msg.ExpiresAt, 0).Format(time.RFC3339))
		}
	case "Turn":
		var msg turnMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("[stt] unmarshal turn: %v", err)
			return
		}
		if msg.Transcript == "" {
			return
		}
		kind := speech.EventInterim
		conf := msg.Confidence
		if msg.EndOfTurn {
			kind = speech.EventFinal
		}
		if conf == 0 {
			conf = 0.9
		}
		s.emit(speech.Event{
			Kind:         kind,
			Alternatives: []speech.Alternative{{Transcript: msg.Transcript, Confidence: conf}},
		})
	case "Termination":
		s.emit(speech.Event{Kind: speech.EventEnd})
	case "Error":
		var msg errorMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			s.emit(speech.Event{Kind: speech.EventError, Err: msg.Error})
		}
	}
}

func (s *session) emit(ev speech.Event) {
	select {
	case s.events <- ev:
	default:
	}
}
