package narration

import (
	"time"

	"github.com/shouni/go-dewey/pkg/narration/parser"
	"github.com/shouni/go-dewey/pkg/narration/queue"
)

// ----------------------------------------------------------------------
// エンジン処理定数
// ----------------------------------------------------------------------

const (
	DefaultMaxChars       = parser.DefaultMaxChars
	DefaultMaxInFlight    = queue.DefaultMaxInFlight
	DefaultMinInterval    = queue.DefaultMinInterval
	DefaultSegmentTimeout = 300 * time.Second
	DefaultHTTPTimeout    = 120 * time.Second
)

// ----------------------------------------------------------------------
// 環境変数
// ----------------------------------------------------------------------

const (
	EnvTTSAPIURL = "DEWEY_TTS_API_URL"
	EnvTTSAPIKey = "DEWEY_TTS_API_KEY"
	EnvTTSVoice  = "DEWEY_TTS_VOICE"
)
