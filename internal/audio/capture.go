package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate is 16kHz mono, the rate the streaming recognizer expects.
	SampleRate      = 16000
	channels        = 1
	framesPerBuffer = 160 // 10ms at 16kHz
)

// FrameHandler receives capture frames. Handlers must not retain the slice.
type FrameHandler func(frame []int16)

// Capture reads mono PCM from the default input device and fans frames out
// to the registered handlers (the presence monitor and the recognizer feed).
type Capture struct {
	mu       sync.Mutex
	stream   *portaudio.Stream
	buffer   []int16
	handlers []FrameHandler
	running  bool
	done     chan struct{}
}

func NewCapture() (*Capture, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("init portaudio: %w", err)
	}
	return &Capture{buffer: make([]int16, framesPerBuffer)}, nil
}

// OnFrame registers a handler. Must be called before Start.
func (c *Capture) OnFrame(h FrameHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}

	stream, err := portaudio.OpenDefaultStream(channels, 0, SampleRate, framesPerBuffer, c.buffer)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}

	c.stream = stream
	c.running = true
	c.done = make(chan struct{})
	go c.readLoop()
	return nil
}

func (c *Capture) readLoop() {
	defer close(c.done)
	for {
		c.mu.Lock()
		running := c.running
		stream := c.stream
		handlers := c.handlers
		c.mu.Unlock()
		if !running || stream == nil {
			return
		}

		if err := stream.Read(); err != nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		frame := make([]int16, len(c.buffer))
		copy(frame, c.buffer)
		for _, h := range handlers {
			h(frame)
		}
	}
}

func (c *Capture) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	stream := c.stream
	c.stream = nil
	done := c.done
	c.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}
	if stream != nil {
		stream.Stop()
		stream.Close()
	}
}

func (c *Capture) Close() {
	c.Stop()
	portaudio.Terminate()
}
