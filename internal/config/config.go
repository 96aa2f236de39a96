// Package config reads process configuration from the environment.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Server holds configuration for the interview server binary.
type Server struct {
	HTTPAddress string

	GeminiKey   string
	GeminiModel string

	SupabaseURL string
	SupabaseKey string

	ElevenLabsKey     string
	ElevenLabsVoiceID string
	DeepgramKey       string
	DeepgramModel     string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	PublicBaseURL    string

	RecruiterAccessKey string
	SpeedProfile       string
	StrictValidation   bool
}

// LoadServer reads environment variables and returns Server with sane defaults.
func LoadServer() Server {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set - interview turns fall back to the question bank")
	}
	geminiModel := os.Getenv("GEMINI_MODEL_ID")
	if geminiModel == "" {
		geminiModel = "gemini-1.5-flash"
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_SERVICE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		log.Println("Warning: SUPABASE_URL / SUPABASE_SERVICE_KEY not set - sessions are stored in memory only")
	}

	elevenKey := os.Getenv("ELEVENLABS_API_KEY")
	voiceID := os.Getenv("ELEVENLABS_VOICE_ID")
	deepgramKey := os.Getenv("DEEPGRAM_API_KEY")
	deepgramModel := os.Getenv("DEEPGRAM_TTS_MODEL")
	if elevenKey == "" && deepgramKey == "" {
		log.Println("Warning: no TTS provider key set - /api/voice/tts will be unavailable")
	}

	accessKey := os.Getenv("RECRUITER_ACCESS_KEY")
	if accessKey == "" {
		log.Println("Warning: RECRUITER_ACCESS_KEY not set - recruiter endpoints are open")
	}

	speed := os.Getenv("INTERVIEW_SPEED_PROFILE")
	if speed == "" {
		speed = "balanced"
	}

	log.Printf("config: HTTP_ADDRESS=%s profile=%s", addr, speed)
	return Server{
		HTTPAddress:        addr,
		GeminiKey:          geminiKey,
		GeminiModel:        geminiModel,
		SupabaseURL:        supabaseURL,
		SupabaseKey:        supabaseKey,
		ElevenLabsKey:      elevenKey,
		ElevenLabsVoiceID:  voiceID,
		DeepgramKey:        deepgramKey,
		DeepgramModel:      deepgramModel,
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:   os.Getenv("TWILIO_FROM_NUMBER"),
		PublicBaseURL:      os.Getenv("PUBLIC_BASE_URL"),
		RecruiterAccessKey: accessKey,
		SpeedProfile:       speed,
		StrictValidation:   os.Getenv("STRICT_VALIDATION") == "1",
	}
}

// Agent holds configuration for the kiosk agent binary.
type Agent struct {
	ServerURL     string
	Token         string
	AssemblyAIKey string
	SpeedProfile  string
	PreferredLang string
}

// LoadAgent reads environment variables for the agent. The interview token
// usually arrives as a flag and overrides the environment value.
func LoadAgent() Agent {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	server := os.Getenv("INTERVIEW_SERVER_URL")
	if server == "" {
		server = "http://localhost:8080"
	}

	assemblyKey := os.Getenv("ASSEMBLYAI_API_KEY")
	if assemblyKey == "" {
		log.Println("Warning: ASSEMBLYAI_API_KEY not set - speech capture will not work")
	}

	speed := os.Getenv("INTERVIEW_SPEED_PROFILE")
	if speed == "" {
		speed = "balanced"
	}
	lang := os.Getenv("INTERVIEW_LANG")
	if lang == "" {
		lang = "mix"
	}

	return Agent{
		ServerURL:     server,
		Token:         os.Getenv("INTERVIEW_TOKEN"),
		AssemblyAIKey: assemblyKey,
		SpeedProfile:  speed,
		PreferredLang: lang,
	}
}
