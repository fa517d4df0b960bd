package narration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-dewey/pkg/narration/api"
	"github.com/shouni/go-dewey/pkg/narration/audio"
	"github.com/shouni/go-dewey/pkg/narration/queue"
)

// fakeSynth はテキストのバイト列をそのまま 8bit PCM とするWAVを返す合成器です。
type fakeSynth struct {
	mu     sync.Mutex
	texts  []string
	delays map[string]time.Duration
	fail   map[string]error
	rates  map[string]int
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()

	if d, ok := f.delays[text]; ok {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d):
		}
	}
	if err, ok := f.fail[text]; ok {
		return nil, err
	}

	rate := 8000
	if r, ok := f.rates[text]; ok {
		rate = r
	}
	return audio.WrapPCM([]byte(text), rate, 1, 8), nil
}

func (f *fakeSynth) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

const fourSentences = "One. Two. Three. Four."

func newTestEngine(synth Synthesizer, maxInFlight int) *Engine {
	return NewEngine(synth, nil, queue.NewScheduler(queue.Config{MaxInFlight: maxInFlight}), EngineConfig{MaxChars: 6})
}

func TestEngine_Execute_PreservesOrder(t *testing.T) {
	// 先頭のセグメントほど遅く完了させる
	synth := &fakeSynth{delays: map[string]time.Duration{
		"One.":   60 * time.Millisecond,
		"Two.":   40 * time.Millisecond,
		"Three.": 20 * time.Millisecond,
	}}

	out, err := newTestEngine(synth, 4).Execute(context.Background(), fourSentences)
	require.NoError(t, err)

	parsed, err := audio.ParseWav(out)
	require.NoError(t, err)
	assert.Equal(t, "One.Two.Three.Four.", string(parsed.PCMData))
	assert.Equal(t, 4, synth.calls())
}

func TestEngine_Execute_CleansMarkdown(t *testing.T) {
	synth := &fakeSynth{}

	out, err := newTestEngine(synth, 1).Execute(context.Background(), "# One.\n\n**Two.**")
	require.NoError(t, err)

	parsed, err := audio.ParseWav(out)
	require.NoError(t, err)
	assert.Equal(t, "One.Two.", string(parsed.PCMData))
}

func TestEngine_Execute_SegmentFailure(t *testing.T) {
	boom := errors.New("upstream 500")
	synth := &fakeSynth{
		fail:   map[string]error{"Two.": boom},
		delays: map[string]time.Duration{"Three.": 5 * time.Second},
	}

	start := time.Now()
	out, err := newTestEngine(synth, 2).Execute(context.Background(), fourSentences)
	assert.Nil(t, out)
	assert.Less(t, time.Since(start), 2*time.Second, "失敗時は残りの処理を中断する")

	var batch *ErrSynthesisBatch
	require.True(t, errors.As(err, &batch), "got %T: %v", err, err)
	assert.Equal(t, 1, batch.TotalErrors)
	assert.Len(t, batch.Details, 1)
	assert.Contains(t, batch.Details[0], "セグメント 1")
	assert.ErrorIs(t, err, boom)
}

func TestEngine_Execute_SegmentFailureWithAPIClient(t *testing.T) {
	// "Fail." には壊れたbase64を返し、"Wait." はクライアント側が切断するまで応答しない
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.SynthesisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Text == "Fail." {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"audio":"not*base64"}`))
			return
		}
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, "key", 5*time.Second)
	start := time.Now()
	out, err := newTestEngine(client, 2).Execute(context.Background(), "Wait. Fail.")
	assert.Nil(t, out)
	assert.Less(t, time.Since(start), 3*time.Second)

	var batch *ErrSynthesisBatch
	require.True(t, errors.As(err, &batch), "got %T: %v", err, err)
	assert.Equal(t, 1, batch.TotalErrors, "details: %v", batch.Details)
	assert.Contains(t, batch.Details[0], "セグメント 1")
	assert.NotErrorIs(t, err, context.Canceled)

	var jsonErr *api.ErrInvalidJSON
	assert.True(t, errors.As(err, &jsonErr))
}

func TestEngine_Execute_SegmentTimeout(t *testing.T) {
	synth := &fakeSynth{delays: map[string]time.Duration{"One.": 5 * time.Second}}

	_, err := newTestEngine(synth, 1).Execute(context.Background(), "One.", WithSegmentTimeout(20*time.Millisecond))

	var batch *ErrSynthesisBatch
	require.True(t, errors.As(err, &batch))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEngine_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	synth := &fakeSynth{}
	out, err := newTestEngine(synth, 1).Execute(ctx, fourSentences)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, context.Canceled)

	var batch *ErrSynthesisBatch
	assert.False(t, errors.As(err, &batch))
}

func TestEngine_Execute_IncompatibleSegments(t *testing.T) {
	synth := &fakeSynth{rates: map[string]int{"Three.": 16000}}

	_, err := newTestEngine(synth, 2).Execute(context.Background(), fourSentences)

	var incompatible *audio.ErrIncompatibleFormat
	require.True(t, errors.As(err, &incompatible), "got %T: %v", err, err)
	assert.Equal(t, 2, incompatible.Index)
}

func TestEngine_Execute_NoSegments(t *testing.T) {
	synth := &fakeSynth{}

	_, err := newTestEngine(synth, 1).Execute(context.Background(), "  \n\n ")
	assert.ErrorIs(t, err, ErrNoSegments)
	assert.Zero(t, synth.calls())
}

func TestEngine_Execute_WithMaxChars(t *testing.T) {
	synth := &fakeSynth{}
	e := NewEngine(synth, nil, queue.NewScheduler(queue.Config{MaxInFlight: 2}), EngineConfig{})
	assert.Equal(t, DefaultMaxChars, e.config.MaxChars)
	assert.Equal(t, DefaultSegmentTimeout, e.config.SegmentTimeout)

	_, err := e.Execute(context.Background(), fourSentences)
	require.NoError(t, err)
	assert.Equal(t, 1, synth.calls())

	_, err = e.Execute(context.Background(), fourSentences, WithMaxChars(6))
	require.NoError(t, err)
	assert.Equal(t, 5, synth.calls())
}

func TestEngine_ExecuteToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "topic.wav")

	err := NewEngine(api.NewMockSynthesizer(), nil, nil, EngineConfig{}).
		ExecuteToFile(context.Background(), "Hello world. This is a narration.", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	parsed, err := audio.ParseWav(data)
	require.NoError(t, err)
	assert.Positive(t, parsed.Duration())
}

func TestNewEngineExecutor(t *testing.T) {
	t.Run("mock without api key", func(t *testing.T) {
		t.Setenv(EnvTTSAPIKey, "")

		exec, err := NewEngineExecutor(context.Background(), 0, nil)
		require.NoError(t, err)

		out, err := exec.Execute(context.Background(), "Just one sentence.")
		require.NoError(t, err)
		_, err = audio.ParseWav(out)
		assert.NoError(t, err)
	})

	t.Run("invalid api url", func(t *testing.T) {
		t.Setenv(EnvTTSAPIKey, "key")
		t.Setenv(EnvTTSAPIURL, "not a url")

		_, err := NewEngineExecutor(context.Background(), time.Second, nil)
		assert.Error(t, err)
	})
}
