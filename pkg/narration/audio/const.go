package audio

// ----------------------------------------------------------------------
// WAV ファイル定数 (動的チャンク探索ベース)
// ----------------------------------------------------------------------

const (
	// RIFF 構造の必須サイズ定数
	RiffChunkIDSize   = 4 // "RIFF" チャンクIDのサイズ
	RiffChunkSizeSize = 4 // ファイルサイズフィールドのサイズ
	WaveIDSize        = 4 // "WAVE" 識別子のサイズ

	// サブチャンクヘッダーのサイズ定数
	ChunkIDSize   = 4 // "fmt " / "data" などのチャンクID
	ChunkSizeSize = 4 // チャンクサイズフィールド (リトルエンディアン)

	// サブチャンクヘッダーの合計サイズ (8バイト)
	ChunkHeaderSize = ChunkIDSize + ChunkSizeSize

	// fmt チャンクのペイロードとして最低限必要なサイズ (PCMWAVEFORMAT)
	MinFmtPayloadSize = 16
)

const (
	// 必須複合サイズ (ロジックで利用)
	WavRiffHeaderSize = RiffChunkIDSize + RiffChunkSizeSize + WaveIDSize // RIFFヘッダーの合計サイズ (12バイト)

	// RIFFチャンクサイズが書き込まれるオフセット (4バイト目)
	RiffChunkSizeOffset = RiffChunkIDSize
	// "WAVE" 識別子のオフセット (8バイト目)
	WaveIDOffset = RiffChunkIDSize + RiffChunkSizeSize
)

// fmt ペイロード先頭からの各フィールドのオフセット
const (
	fmtAudioFormatOffset   = 0
	fmtNumChannelsOffset   = 2
	fmtSampleRateOffset    = 4
	fmtByteRateOffset      = 8
	fmtBlockAlignOffset    = 12
	fmtBitsPerSampleOffset = 14
)

const (
	riffID = "RIFF"
	waveID = "WAVE"
	fmtID  = "fmt "
	dataID = "data"
)

// AudioFormat の代表的な値
const (
	AudioFormatPCM       = 1
	AudioFormatIEEEFloat = 3
	AudioFormatALaw      = 6
	AudioFormatMULaw     = 7
)
