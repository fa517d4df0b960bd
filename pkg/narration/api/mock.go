package api

import (
	"context"
	"encoding/binary"
	"math"
	"sync/atomic"
	"unicode/utf8"

	"github.com/shouni/go-dewey/pkg/narration/audio"
)

// MockSynthesizer は任意のテキストを短いサイン波に変換するテスト・オフライン用の合成器です。
// 文字数に比例した長さの 16kHz モノラル PCM16LE WAV を返します。
type MockSynthesizer struct {
	calls atomic.Int64
}

// NewMockSynthesizer は MockSynthesizer を生成します。
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

// Synthesize はテキスト長に応じたビープ音のWAVを返します。
func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.calls.Add(1)

	samples := max(utf8.RuneCountInString(text)*mockSamplesPerRune, mockMinimumSamples)
	pcm := make([]byte, 0, samples*2)
	for i := 0; i < samples; i++ {
		val := int16(mockToneAmplitude * math.Sin(2*math.Pi*mockToneFrequency*float64(i)/mockSampleRate))
		pcm = binary.LittleEndian.AppendUint16(pcm, uint16(val))
	}

	return audio.WrapPCM(pcm, mockSampleRate, 1, mockBitsPerSample), nil
}

// Calls はこれまでの Synthesize 呼び出し回数を返します。
func (m *MockSynthesizer) Calls() int64 { return m.calls.Load() }
