package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youpy/go-riff"
	"github.com/zaf/g711"
)

func TestConcatWav_Singleton(t *testing.T) {
	// 単一入力は解析すらせずそのまま返す (壊れた入力でも同じ)
	for _, in := range [][]byte{
		WrapPCM(sequentialBytes(20, 0), 16000, 1, 16),
		[]byte("not a wav at all"),
	} {
		out, err := ConcatWav([][]byte{in})
		require.NoError(t, err)
		assert.Equal(t, in, out)
		assert.Same(t, &in[0], &out[0])
	}
}

func TestConcatWav_Empty(t *testing.T) {
	out, err := ConcatWav(nil)
	assert.Nil(t, out)

	var noData *ErrNoAudioData
	assert.True(t, errors.As(err, &noData))
}

func TestConcatWav(t *testing.T) {
	a := sequentialBytes(100, 1)
	b := sequentialBytes(37, 50) // 奇数長 (パディング付き)
	c := sequentialBytes(255, 200)

	blobs := [][]byte{
		WrapPCM(a, 22050, 1, 16),
		buildWav(
			testChunk{id: "fmt ", payload: pcmFmtPayload(AudioFormatPCM, 1, 22050, 16)},
			testChunk{id: "LIST", payload: []byte("INFOISFT")},
			testChunk{id: "data", payload: b},
		),
		buildWav(
			testChunk{id: "fmt ", payload: pcmFmtPayload(AudioFormatPCM, 1, 22050, 16)},
			testChunk{id: "data", payload: c},
			testChunk{id: "cue ", payload: sequentialBytes(24, 0)},
		),
	}

	out, err := ConcatWav(blobs)
	require.NoError(t, err)

	totalDataSize := len(a) + len(b) + len(c)

	// ヘッダーのサイズフィールド
	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.EqualValues(t, len(out)-8, binary.LittleEndian.Uint32(out[4:8]))
	assert.EqualValues(t, 4+24+8+totalDataSize, binary.LittleEndian.Uint32(out[4:8]))
	assert.Equal(t, "WAVE", string(out[8:12]))
	assert.Equal(t, blobs[0][12:36], out[12:36])

	// 再解析するとPCMが入力順に連結されている
	parsed, err := ParseWav(out)
	require.NoError(t, err)
	assert.Len(t, parsed.PCMData, totalDataSize)

	var expected []byte
	expected = append(expected, a...)
	expected = append(expected, b...)
	expected = append(expected, c...)
	assert.Equal(t, expected, parsed.PCMData)

	// 独立したRIFFリーダーで fmt と data の2チャンクのみであることを確認
	riffChunk, err := riff.NewReader(bytes.NewReader(out)).Read()
	require.NoError(t, err)
	require.Len(t, riffChunk.Chunks, 2)
	assert.Equal(t, "fmt ", string(riffChunk.Chunks[0].ChunkID[:]))
	assert.Equal(t, "data", string(riffChunk.Chunks[1].ChunkID[:]))
	assert.EqualValues(t, totalDataSize, riffChunk.Chunks[1].ChunkSize)
}

func TestConcatWav_OddSizedFmt(t *testing.T) {
	// 拡張バイト付きの17バイト fmt ペイロード
	fmtPayload := append(pcmFmtPayload(AudioFormatPCM, 1, 8000, 8), 0x7f)
	a := sequentialBytes(10, 0)
	b := sequentialBytes(6, 100)

	blobs := [][]byte{
		buildWav(testChunk{id: "fmt ", payload: fmtPayload}, testChunk{id: "data", payload: a}),
		buildWav(testChunk{id: "fmt ", payload: fmtPayload}, testChunk{id: "data", payload: b}),
	}

	out, err := ConcatWav(blobs)
	require.NoError(t, err)

	// fmt (8+17) の後にパディング1バイト、data は偶数オフセットから始まる
	assert.EqualValues(t, 0, out[12+25])
	assert.Equal(t, "data", string(out[38:42]))
	assert.EqualValues(t, len(out)-8, binary.LittleEndian.Uint32(out[4:8]))

	parsed, err := ParseWav(out)
	require.NoError(t, err)
	assert.Equal(t, blobs[0][12:37], parsed.Format.FmtChunk)
	assert.Equal(t, append(append([]byte{}, a...), b...), parsed.PCMData)

	riffChunk, err := riff.NewReader(bytes.NewReader(out)).Read()
	require.NoError(t, err)
	require.Len(t, riffChunk.Chunks, 2)
	assert.Equal(t, "data", string(riffChunk.Chunks[1].ChunkID[:]))
	assert.EqualValues(t, len(a)+len(b), riffChunk.Chunks[1].ChunkSize)
}

func TestConcatWav_Deterministic(t *testing.T) {
	blobs := [][]byte{
		WrapPCM(sequentialBytes(10, 0), 8000, 1, 8),
		WrapPCM(sequentialBytes(12, 9), 8000, 1, 8),
	}
	first, err := ConcatWav(blobs)
	require.NoError(t, err)
	second, err := ConcatWav(blobs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConcatWav_IncompatibleFormats(t *testing.T) {
	mono44k := WrapPCM(sequentialBytes(40, 0), 44100, 1, 16)
	stereo48k := WrapPCM(sequentialBytes(40, 0), 48000, 2, 16)

	// スカラー値は同じだが fmt チャンクに cbSize (2バイト) を持つ
	extended := buildWav(
		testChunk{id: "fmt ", payload: append(pcmFmtPayload(AudioFormatPCM, 1, 44100, 16), 0, 0)},
		testChunk{id: "data", payload: sequentialBytes(40, 0)},
	)

	tests := []struct {
		name      string
		blobs     [][]byte
		wantIndex int
	}{
		{name: "44.1kHz mono + 48kHz stereo", blobs: [][]byte{mono44k, stereo48k}, wantIndex: 1},
		{name: "mismatch at third", blobs: [][]byte{mono44k, mono44k, stereo48k}, wantIndex: 2},
		{name: "fmt extension differs", blobs: [][]byte{mono44k, extended}, wantIndex: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ConcatWav(tt.blobs)
			assert.Nil(t, out)

			var incompatible *ErrIncompatibleFormat
			require.True(t, errors.As(err, &incompatible), "got %T: %v", err, err)
			assert.Equal(t, tt.wantIndex, incompatible.Index)
		})
	}
}

func TestConcatWav_ParseErrorCarriesIndex(t *testing.T) {
	good := WrapPCM(sequentialBytes(8, 0), 16000, 1, 16)

	out, err := ConcatWav([][]byte{good, good, []byte("garbage-garbage")})
	assert.Nil(t, out)

	var formatErr *ErrFormat
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 2, formatErr.Index)
}

func TestConcatWav_NonPCM(t *testing.T) {
	// A-law (format 6) でもフォーマットが揃っていれば結合できる
	encode := func(samples ...int16) []byte {
		out := make([]byte, len(samples))
		for i, s := range samples {
			out[i] = g711.EncodeAlawFrame(s)
		}
		return out
	}
	first := encode(0, 1000, -1000, 32000)
	second := encode(-32000, 5, 16)

	out, err := ConcatWav([][]byte{
		WrapFormat(first, AudioFormatALaw, 8000, 1, 8),
		WrapFormat(second, AudioFormatALaw, 8000, 1, 8),
	})
	require.NoError(t, err)

	parsed, err := ParseWav(out)
	require.NoError(t, err)
	assert.EqualValues(t, AudioFormatALaw, parsed.Format.AudioFormat)
	assert.Equal(t, append(append([]byte{}, first...), second...), parsed.PCMData)
	assert.Equal(t, g711.DecodeAlawFrame(first[1]), g711.DecodeAlawFrame(parsed.PCMData[1]))
}
