package srs

import "time"

// ScheduleState はカードごとの復習スケジュールです。
// NextReview がゼロ値のカードは新規で、すぐに復習対象になります。
type ScheduleState struct {
	Interval    int
	Repetitions int
	EaseFactor  float64
	NextReview  time.Time
}

// NewScheduleState は新規カードの初期スケジュールを返します。
func NewScheduleState() ScheduleState {
	return ScheduleState{EaseFactor: DefaultEaseFactor}
}

// IsDue は now 時点で復習対象かどうかを返します。
func (s ScheduleState) IsDue(now time.Time) bool {
	return s.NextReview.IsZero() || !s.NextReview.After(now)
}

// Review は評価値を適用した新しいスケジュールを返します。s 自体は変更しません。
func (s ScheduleState) Review(grade Grade, now time.Time) ScheduleState {
	r := CalculateReview(grade, s.Interval, s.Repetitions, s.EaseFactor, now)
	return ScheduleState{
		Interval:    r.Interval,
		Repetitions: r.Repetitions,
		EaseFactor:  r.EaseFactor,
		NextReview:  r.NextReview,
	}
}

// EpochMillis は永続化用にエポックミリ秒へ変換します。
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromEpochMillis はエポックミリ秒から時刻を復元します。
func FromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
