package audio

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Player renders interviewer speech on the default output device. Play
// blocks until the clip has drained.
type Player struct {
	framesPerWrite int
}

func NewPlayer() *Player {
	return &Player{framesPerWrite: 1024}
}

// Play decodes a PCM WAV clip and writes it to the output stream.
func (p *Player) Play(wav []byte) error {
	pcm, sampleRate, err := DecodeWAV(wav)
	if err != nil {
		return err
	}
	if len(pcm) == 0 {
		return nil
	}

	buf := make([]int16, p.framesPerWrite)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), p.framesPerWrite, buf)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}
	defer stream.Stop()

	for off := 0; off < len(pcm); off += p.framesPerWrite {
		n := copy(buf, pcm[off:])
		for i := n; i < len(buf); i++ {
			buf[i] = 0
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("write output stream: %w", err)
		}
	}
	return nil
}

// DecodeWAV extracts 16-bit mono PCM samples and the sample rate from a
// RIFF/WAVE container. Stereo clips are downmixed to mono.
func DecodeWAV(data []byte) ([]int16, int, error) {
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, errors.New("not a wav file")
	}

	var sampleRate, numChannels, bitsPerSample int
	var pcmBytes []byte

	off := 12
	for off+8 <= len(data) {
		chunkID := string(data[off : off+4])
		chunkLen := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+chunkLen > len(data) {
			chunkLen = len(data) - body
		}
		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return nil, 0, errors.New("wav: short fmt chunk")
			}
			numChannels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcmBytes = data[body : body+chunkLen]
		}
		off = body + chunkLen
		if chunkLen%2 == 1 {
			off++
		}
	}

	if sampleRate == 0 || pcmBytes == nil {
		return nil, 0, errors.New("wav: missing fmt or data chunk")
	}
	if bitsPerSample != 16 {
		return nil, 0, fmt.Errorf("wav: unsupported bit depth %d", bitsPerSample)
	}
	if numChannels < 1 {
		numChannels = 1
	}

	frames := len(pcmBytes) / 2 / numChannels
	out := make([]int16, frames)
	for i := 0; i < frames; i++ {
		var acc int
		for ch := 0; ch < numChannels; ch++ {
			idx := (i*numChannels + ch) * 2
			acc += int(int16(binary.LittleEndian.Uint16(pcmBytes[idx : idx+2])))
		}
		out[i] = int16(acc / numChannels)
	}
	return out, sampleRate, nil
}

// EncodeWAV wraps raw 16-bit mono PCM in a RIFF/WAVE container.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	dataLen := len(pcm)
	out := make([]byte, 44+dataLen)
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataLen))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], 1) // mono
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(sampleRate*2))
	binary.LittleEndian.PutUint16(out[32:34], 2)
	binary.LittleEndian.PutUint16(out[34:36], 16)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataLen))
	copy(out[44:], pcm)
	return out
}
