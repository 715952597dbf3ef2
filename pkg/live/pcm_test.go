package live

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestFloat32ToPCM16_ClampsAndConverts(t *testing.T) {
	pcm := Float32ToPCM16([]float32{0, 1, -1, 2, -2, 0.5})
	if len(pcm) != 12 {
		t.Fatalf("len=%d, want 12", len(pcm))
	}
	got := func(i int) int16 { return int16(binary.LittleEndian.Uint16(pcm[i*2:])) }
	if got(0) != 0 {
		t.Fatalf("zero sample=%d", got(0))
	}
	if got(1) != 32767 || got(3) != 32767 {
		t.Fatalf("positive clamp: %d, %d", got(1), got(3))
	}
	if got(2) != -32767 || got(4) != -32767 {
		t.Fatalf("negative clamp: %d, %d", got(2), got(4))
	}
	if got(5) < 16000 || got(5) > 16767 {
		t.Fatalf("half scale=%d", got(5))
	}
}

func TestPCM16RoundTrip(t *testing.T) {
	in := []float32{0, 0.25, -0.25, 0.99, -0.99}
	out := PCM16ToFloat32(Float32ToPCM16(in))
	if len(out) != len(in) {
		t.Fatalf("len=%d, want %d", len(out), len(in))
	}
	for i := range in {
		diff := out[i] - in[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 0.001 {
			t.Fatalf("sample %d: got %v, want ~%v", i, out[i], in[i])
		}
	}
}

func TestPCM16Duration(t *testing.T) {
	// One second of mono PCM16 at the output rate.
	if d := PCM16Duration(make([]byte, OutputSampleRate*2), OutputSampleRate); d != time.Second {
		t.Fatalf("duration=%v, want 1s", d)
	}
	if d := PCM16Duration(nil, OutputSampleRate); d != 0 {
		t.Fatalf("duration=%v for empty buffer", d)
	}
	if d := PCM16Duration(make([]byte, 100), 0); d != 0 {
		t.Fatalf("duration=%v for zero rate", d)
	}
}

func TestWrapWAV_Header(t *testing.T) {
	pcm := make([]byte, InputSampleRate*2) // one second
	wav := WrapWAV(pcm, InputSampleRate)
	if len(wav) != 44+len(pcm) {
		t.Fatalf("len=%d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatalf("bad container magic")
	}
	if rate := binary.LittleEndian.Uint32(wav[24:]); rate != InputSampleRate {
		t.Fatalf("rate=%d", rate)
	}
	if size := binary.LittleEndian.Uint32(wav[40:]); size != uint32(len(pcm)) {
		t.Fatalf("data size=%d", size)
	}
}
