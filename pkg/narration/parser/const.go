package parser

const (
	// 音声合成APIへ1リクエストで送る最大文字数の目安。
	DefaultMaxChars = 2500
)
