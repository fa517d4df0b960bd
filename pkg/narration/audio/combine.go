package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ----------------------------------------------------------------------
// 公開ロジック
// ----------------------------------------------------------------------

// ConcatWav は複数のWAVデータ（バイトスライス）を入力順に結合し、
// 正しいヘッダーを持つ単一のWAVファイル（バイトスライス）を生成します。
//
// 入力が1件の場合は再エンコードせずそのまま返します。
// 出力は RIFF/WAVE + 先頭WAVの fmt チャンク + data チャンクの2サブチャンクのみで構成され、
// LIST などその他のチャンクは破棄されます。fmt チャンクが奇数長の場合は後ろにパディングバイトを1つ置きます。
// いずれかのWAVのフォーマットが先頭と一致しない場合、何も出力せずに *ErrIncompatibleFormat を返します。
func ConcatWav(blobs [][]byte) ([]byte, error) {
	if len(blobs) == 0 {
		return nil, &ErrNoAudioData{}
	}
	if len(blobs) == 1 {
		return blobs[0], nil
	}

	// 1. すべてのWAVを解析
	parsed := make([]*ParsedWav, len(blobs))
	for i, blob := range blobs {
		p, err := parseWav(blob, i)
		if err != nil {
			return nil, err
		}
		parsed[i] = p
	}

	// 2. フォーマットの互換性チェック (先頭と比較)
	base := parsed[0].Format
	var totalDataSize uint64
	for i, p := range parsed {
		if i > 0 && !base.Compatible(p.Format) {
			return nil, &ErrIncompatibleFormat{
				Index:   i,
				Details: fmt.Sprintf("先頭 [%s] / 対象 [%s]", base, p.Format),
			}
		}
		totalDataSize += uint64(len(p.PCMData))
	}

	// 3. 結合されたデータと先頭のフォーマットヘッダーから新しいWAVファイルを構築
	return buildCombinedWav(base.FmtChunk, parsed, totalDataSize)
}

// ----------------------------------------------------------------------
// 内部ヘルパー関数
// ----------------------------------------------------------------------

// buildCombinedWav は fmt チャンクと各WAVのオーディオデータから、
// 正しいヘッダーを持つ単一のWAVファイルを構築します。
func buildCombinedWav(fmtChunk []byte, parsed []*ParsedWav, totalDataSize uint64) ([]byte, error) {
	// 奇数長の fmt チャンクの後にはパディングバイトを置き、data チャンクを偶数オフセットに揃える
	fmtPad := len(fmtChunk) % 2

	// RIFFチャンクサイズ = "WAVE" (4) + fmt チャンク (+パディング) + data チャンクヘッダー (8) + オーディオデータ
	riffChunkSize := uint64(WaveIDSize) + uint64(len(fmtChunk)+fmtPad) + ChunkHeaderSize + totalDataSize
	if riffChunkSize > math.MaxUint32 {
		return nil, &ErrFormat{
			Index:   -1,
			Details: fmt.Sprintf("結合後のサイズ (%dバイト) がWAVの上限 (4GiB) を超えています", riffChunkSize),
		}
	}

	headerSize := WavRiffHeaderSize + len(fmtChunk) + fmtPad + ChunkHeaderSize
	combined := make([]byte, 0, headerSize+int(totalDataSize))

	// RIFF ヘッダー
	combined = append(combined, riffID...)
	combined = binary.LittleEndian.AppendUint32(combined, uint32(riffChunkSize))
	combined = append(combined, waveID...)

	// fmt チャンク (先頭WAVのものをそのままコピー)
	combined = append(combined, fmtChunk...)
	if fmtPad != 0 {
		combined = append(combined, 0)
	}

	// data チャンク
	combined = append(combined, dataID...)
	combined = binary.LittleEndian.AppendUint32(combined, uint32(totalDataSize))
	for _, p := range parsed {
		combined = append(combined, p.PCMData...)
	}

	return combined, nil
}
