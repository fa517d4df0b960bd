// Package srs は SM-2 アルゴリズムによる間隔反復スケジューリングを提供します。
//
// https://en.wikipedia.org/wiki/SuperMemo#Description_of_SM-2_algorithm
package srs

import (
	"math"
	"time"
)

// Grade は想起の質を表す 0〜5 の評価値です (SM-2 の q)。
type Grade int

const (
	GradeBlackout  Grade = 0 // 完全に思い出せない
	GradeIncorrect Grade = 1 // 不正解。正解を見て思い出した
	GradeHard      Grade = 2 // 不正解。正解は簡単に思い出せそうだった
	GradeDifficult Grade = 3 // 正解。かなり苦労した
	GradeHesitant  Grade = 4 // 正解。少し迷った
	GradePerfect   Grade = 5 // 完璧に想起できた
)

const (
	// PassingGrade 以上を正解として扱う
	PassingGrade Grade = 3

	// MinEaseFactor は易しさ係数の下限
	MinEaseFactor = 1.3
	// DefaultEaseFactor は新規カードの易しさ係数
	DefaultEaseFactor = 2.5

	// Day は次回復習日の計算単位 (86,400,000 ミリ秒)
	Day = 24 * time.Hour
)

// ReviewResult は1回の復習後のスケジュールです。
type ReviewResult struct {
	Interval    int // 次回までの日数
	Repetitions int // 連続正解回数
	EaseFactor  float64
	NextReview  time.Time
}

// CalculateReview は評価値と現在のスケジュールから次のスケジュールを計算します。
// 副作用のない純粋関数です。grade の範囲は検証しません (呼び出し側が 0〜5 に制限する前提)。
func CalculateReview(grade Grade, interval, repetitions int, easeFactor float64, now time.Time) ReviewResult {
	var nextInterval, nextRepetitions int

	if grade >= PassingGrade {
		switch repetitions {
		case 0:
			nextInterval = 1
			nextRepetitions = 1
		case 1:
			nextInterval = 6
			nextRepetitions = 2
		default:
			nextInterval = int(math.Round(float64(interval) * easeFactor))
			nextRepetitions = repetitions + 1
		}
	} else {
		// 不正解は完全リセット
		nextInterval = 1
		nextRepetitions = 0
	}

	// EF' := EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
	q := float64(5 - grade)
	nextEaseFactor := easeFactor + (0.1 - q*(0.08+q*0.02))
	if nextEaseFactor < MinEaseFactor {
		nextEaseFactor = MinEaseFactor
	}

	return ReviewResult{
		Interval:    nextInterval,
		Repetitions: nextRepetitions,
		EaseFactor:  nextEaseFactor,
		NextReview:  now.Add(time.Duration(nextInterval) * Day),
	}
}
