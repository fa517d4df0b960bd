package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// ----------------------------------------------------------------------
// データモデル
// ----------------------------------------------------------------------

// WavFormat はWAVストリームのエンコード情報を表す不変の値です。
// FmtChunk は "fmt " サブチャンクの生バイト (8バイトのヘッダーを含む) で、
// 互換性判定の正準な識別子として利用します。
type WavFormat struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	FmtChunk      []byte
}

// ParsedWav はフォーマット情報と data チャンクのペイロードを保持します。
// PCMData は入力バッファの該当範囲を参照します (コピーしません)。
type ParsedWav struct {
	Format  WavFormat
	PCMData []byte
}

// Compatible は2つのフォーマットが結合可能かどうかを判定します。
// すべてのスカラー値が一致し、かつ fmt チャンクのバイト列が完全一致する場合のみ true です。
// 拡張フィールド (WAVE_FORMAT_EXTENSIBLE など) の差異もバイト比較で検出されます。
func (f WavFormat) Compatible(other WavFormat) bool {
	return f.AudioFormat == other.AudioFormat &&
		f.NumChannels == other.NumChannels &&
		f.SampleRate == other.SampleRate &&
		f.ByteRate == other.ByteRate &&
		f.BlockAlign == other.BlockAlign &&
		f.BitsPerSample == other.BitsPerSample &&
		bytes.Equal(f.FmtChunk, other.FmtChunk)
}

// Duration は dataSize バイトのオーディオデータの再生時間を計算します。
func (f WavFormat) Duration(dataSize int) time.Duration {
	if f.BlockAlign == 0 || f.SampleRate == 0 || dataSize <= 0 {
		return 0
	}
	totalSamples := float64(dataSize) / float64(f.BlockAlign)
	sec := totalSamples / float64(f.SampleRate)
	return time.Duration(sec * float64(time.Second))
}

// String はログ出力用の簡易表現を返します。
func (f WavFormat) String() string {
	return fmt.Sprintf("format=%d channels=%d rate=%dHz bits=%d", f.AudioFormat, f.NumChannels, f.SampleRate, f.BitsPerSample)
}

// Duration は PCMData 全体の再生時間を返します。
func (p *ParsedWav) Duration() time.Duration {
	return p.Format.Duration(len(p.PCMData))
}

// ----------------------------------------------------------------------
// 解析ロジック
// ----------------------------------------------------------------------

// ParseWav はWAVバイト列からフォーマット情報と data チャンクのペイロードを抽出します。
// LIST などのメタデータチャンクはスキップし、最初の "fmt " と最初の "data" を探します。
// data チャンクの宣言サイズがバッファ長を超える場合は切り詰めずにエラーを返します。
func ParseWav(buf []byte) (*ParsedWav, error) {
	return parseWav(buf, -1)
}

func parseWav(buf []byte, index int) (*ParsedWav, error) {
	// RIFFヘッダー (12バイト: RIFF + file size + WAVE) の存在確認
	if len(buf) < WavRiffHeaderSize {
		return nil, &ErrFormat{
			Index:   index,
			Details: fmt.Sprintf("WAVではありません (RIFFヘッダー不足: %dバイト)", len(buf)),
		}
	}
	if string(buf[0:RiffChunkIDSize]) != riffID || string(buf[WaveIDOffset:WavRiffHeaderSize]) != waveID {
		return nil, &ErrFormat{Index: index, Details: "WAVではありません (RIFF/WAVE ヘッダーがありません)"}
	}

	var (
		fmtChunk  []byte
		pcmData   []byte
		fmtFound  bool
		dataFound bool
	)

	offset := uint64(WavRiffHeaderSize)
	bufLen := uint64(len(buf))

	// fmt と data の両方が見つかるか、チャンクヘッダーを読めなくなるまでループ
	for offset+ChunkHeaderSize <= bufLen && !(fmtFound && dataFound) {
		chunkID := string(buf[offset : offset+ChunkIDSize])
		chunkSize := uint64(binary.LittleEndian.Uint32(buf[offset+ChunkIDSize : offset+ChunkHeaderSize]))

		payloadStart := offset + ChunkHeaderSize
		payloadEnd := payloadStart + chunkSize

		switch {
		case chunkID == fmtID && !fmtFound:
			if payloadEnd > bufLen {
				return nil, &ErrFormat{
					Index:   index,
					Details: fmt.Sprintf("fmtチャンクの宣言サイズ (%d) がファイルサイズを超過しています", chunkSize),
				}
			}
			if chunkSize < MinFmtPayloadSize {
				return nil, &ErrFormat{
					Index:   index,
					Details: fmt.Sprintf("fmtチャンクが短すぎます (%dバイト)", chunkSize),
				}
			}
			fmtChunk = bytes.Clone(buf[offset:payloadEnd])
			fmtFound = true

		case chunkID == dataID && !dataFound:
			if payloadEnd > bufLen {
				return nil, &ErrFormat{
					Index:   index,
					Details: fmt.Sprintf("dataチャンクの宣言サイズ (%d) がファイルサイズを超過しています (残り %dバイト)", chunkSize, bufLen-payloadStart),
				}
			}
			pcmData = buf[payloadStart:payloadEnd]
			dataFound = true
		}

		// 次のチャンクヘッダーの開始位置までオフセットを移動
		offset = payloadEnd
		// パディングバイトの考慮 (奇数長のチャンクデータの後)
		if chunkSize%2 != 0 {
			offset++
		}
	}

	if !fmtFound {
		return nil, &ErrFormat{Index: index, Details: "WAVファイル内に 'fmt ' チャンクが見つかりませんでした"}
	}
	if !dataFound {
		return nil, &ErrFormat{Index: index, Details: "WAVファイル内に 'data' チャンクが見つかりませんでした"}
	}

	payload := fmtChunk[ChunkHeaderSize:]
	format := WavFormat{
		AudioFormat:   binary.LittleEndian.Uint16(payload[fmtAudioFormatOffset:]),
		NumChannels:   binary.LittleEndian.Uint16(payload[fmtNumChannelsOffset:]),
		SampleRate:    binary.LittleEndian.Uint32(payload[fmtSampleRateOffset:]),
		ByteRate:      binary.LittleEndian.Uint32(payload[fmtByteRateOffset:]),
		BlockAlign:    binary.LittleEndian.Uint16(payload[fmtBlockAlignOffset:]),
		BitsPerSample: binary.LittleEndian.Uint16(payload[fmtBitsPerSampleOffset:]),
		FmtChunk:      fmtChunk,
	}

	return &ParsedWav{Format: format, PCMData: pcmData}, nil
}
