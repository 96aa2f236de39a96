package voice

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
)

// Espeak is the local last-resort voice. It shells out to espeak-ng, which
// ships an Urdu voice, so even a fully offline kiosk keeps talking.
type Espeak struct {
	Binary string
}

func NewEspeak() *Espeak {
	return &Espeak{Binary: "espeak-ng"}
}

func (e *Espeak) Name() string { return "espeak" }

func (e *Espeak) Supports(interview.Lang) bool { return true }

func (e *Espeak) Available() bool {
	_, err := exec.LookPath(e.binary())
	return err == nil
}

func (e *Espeak) binary() string {
	if e.Binary != "" {
		return e.Binary
	}
	return "espeak-ng"
}

func (e *Espeak) Synthesize(ctx context.Context, text string, lang interview.Lang) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	voice := "en-us"
	if lang == interview.LangUR {
		voice = "ur"
	}

	cmd := exec.CommandContext(ctx, e.binary(), "-v", voice, "-s", "150", "--stdout", text)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("espeak: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("espeak: no audio produced")
	}
	return out.Bytes(), nil
}
