package api

const (
	// DefaultVoice は音声名が未指定の場合に使用する音声です。
	DefaultVoice = "af_bella"

	// DefaultAPIURL は DeepInfra がホストする Kokoro TTS の推論エンドポイントです。
	DefaultAPIURL = "https://api.deepinfra.com/v1/inference/hexgrad/Kokoro-82M"

	outputFormatWav = "wav"
)

// モック合成器の出力設定 (16kHz モノラル PCM16LE)
const (
	mockSampleRate     = 16000
	mockBitsPerSample  = 16
	mockToneFrequency  = 440.0
	mockToneAmplitude  = 3000
	mockSamplesPerRune = 320  // 20ms
	mockMinimumSamples = 1920 // 120ms
)
