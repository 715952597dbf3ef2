package live

import (
	"encoding/binary"
	"math"
	"time"
)

// Sample rates are part of the wire contract with the audio backend and
// are never negotiated.
const (
	InputSampleRate  = 16000
	OutputSampleRate = 24000
)

// Float32ToPCM16 converts floating-point samples in [-1, 1] to signed
// 16-bit little-endian PCM. Out-of-range samples are clamped.
func Float32ToPCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(math.Round(float64(s) * 32767))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// PCM16ToFloat32 converts signed 16-bit little-endian PCM back to
// floating-point samples. A trailing odd byte is ignored.
func PCM16ToFloat32(pcm []byte) []float32 {
	n := len(pcm) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		out[i] = float32(v) / 32768
	}
	return out
}

// PCM16Duration returns the play time of a mono PCM16 buffer at the given
// sample rate.
func PCM16Duration(pcm []byte, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	samples := len(pcm) / 2
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}

// WrapWAV prefixes mono PCM16 data with a RIFF header so it can be sent to
// endpoints that expect a self-describing container. Used by the fallback
// voice mode, which uploads one whole utterance at a time.
func WrapWAV(pcm []byte, sampleRate int) []byte {
	const headerLen = 44
	out := make([]byte, headerLen+len(pcm))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:], 1) // mono
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(sampleRate*2)) // byte rate
	binary.LittleEndian.PutUint16(out[32:], 2)                    // block align
	binary.LittleEndian.PutUint16(out[34:], 16)                   // bits per sample
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(len(pcm)))
	copy(out[headerLen:], pcm)
	return out
}
