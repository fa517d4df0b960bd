package audio

import "encoding/binary"

// WrapPCM は生のPCMデータに標準的な44バイトのWAVヘッダー (fmt 16バイト) を付与します。
// 主にモック合成器やテストで利用します。
func WrapPCM(pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	return WrapFormat(pcm, AudioFormatPCM, sampleRate, channels, bitsPerSample)
}

// WrapFormat は audioFormat を指定してWAVヘッダーを付与します (A-law, μ-law など)。
func WrapFormat(data []byte, audioFormat uint16, sampleRate, channels, bitsPerSample int) []byte {
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	out := make([]byte, 0, WavRiffHeaderSize+ChunkHeaderSize+MinFmtPayloadSize+ChunkHeaderSize+len(data))

	// RIFF header
	out = append(out, riffID...)
	out = binary.LittleEndian.AppendUint32(out, uint32(WaveIDSize+ChunkHeaderSize+MinFmtPayloadSize+ChunkHeaderSize+len(data)))
	out = append(out, waveID...)

	// fmt subchunk
	out = append(out, fmtID...)
	out = binary.LittleEndian.AppendUint32(out, MinFmtPayloadSize)
	out = binary.LittleEndian.AppendUint16(out, audioFormat)
	out = binary.LittleEndian.AppendUint16(out, uint16(channels))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(byteRate))
	out = binary.LittleEndian.AppendUint16(out, uint16(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, uint16(bitsPerSample))

	// data subchunk
	out = append(out, dataID...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(data)))
	return append(out, data...)
}
