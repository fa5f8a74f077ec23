package audio

import (
	"encoding/binary"
	"math"
	"time"

	"tomato/internal/core/pomodoro"
)

const (
	DefaultSampleRate = 44100
	bytesPerSample    = 2
	amplitude         = 0.6 * math.MaxInt16
	fadeDuration      = 5 * time.Millisecond
)

// Synthesize renders an alarm as mono signed 16-bit little-endian PCM.
func Synthesize(alarm pomodoro.Alarm, sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	total := 0
	for _, tone := range alarm.Tones {
		total += sampleCount(tone.Duration, sampleRate)
	}
	pcm := make([]byte, 0, total*bytesPerSample)
	for _, tone := range alarm.Tones {
		pcm = appendTone(pcm, tone, sampleRate)
	}
	return pcm
}

func appendTone(pcm []byte, tone pomodoro.Tone, sampleRate int) []byte {
	samples := sampleCount(tone.Duration, sampleRate)
	fade := sampleCount(fadeDuration, sampleRate)
	if fade*2 > samples {
		fade = samples / 2
	}

	var frame [bytesPerSample]byte
	for i := 0; i < samples; i++ {
		var value int16
		if tone.Frequency > 0 {
			gain := 1.0
			switch {
			case i < fade:
				gain = float64(i) / float64(fade)
			case i >= samples-fade:
				gain = float64(samples-i-1) / float64(fade)
			}
			phase := 2 * math.Pi * tone.Frequency * float64(i) / float64(sampleRate)
			value = int16(amplitude * gain * math.Sin(phase))
		}
		binary.LittleEndian.PutUint16(frame[:], uint16(value))
		pcm = append(pcm, frame[:]...)
	}
	return pcm
}

func sampleCount(duration time.Duration, sampleRate int) int {
	return int(int64(duration) * int64(sampleRate) / int64(time.Second))
}
