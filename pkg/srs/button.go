package srs

import (
	"errors"
	"fmt"
	"strings"
)

// Button は復習画面の4択ボタンです。
// 値はそのまま SM-2 の評価値に対応し、0 と 3 は意図的に使いません。
type Button int

const (
	ButtonAgain Button = 1
	ButtonHard  Button = 2
	ButtonGood  Button = 4
	ButtonEasy  Button = 5
)

// ErrUnknownButton は未定義のボタン名が指定されたことを示します。
var ErrUnknownButton = errors.New("未定義の復習ボタンです")

var buttonNames = map[string]Button{
	"again": ButtonAgain,
	"hard":  ButtonHard,
	"good":  ButtonGood,
	"easy":  ButtonEasy,
}

// ParseButton はボタン名 (again/hard/good/easy) を解釈します。大文字小文字は区別しません。
func ParseButton(name string) (Button, error) {
	b, ok := buttonNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownButton, name)
	}
	return b, nil
}

// Grade はボタンに対応する評価値を返します。
func (b Button) Grade() Grade {
	return Grade(b)
}

func (b Button) String() string {
	switch b {
	case ButtonAgain:
		return "again"
	case ButtonHard:
		return "hard"
	case ButtonGood:
		return "good"
	case ButtonEasy:
		return "easy"
	}
	return fmt.Sprintf("Button(%d)", int(b))
}
