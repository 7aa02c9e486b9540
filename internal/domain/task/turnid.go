package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TurnID は1ターン（1往復の要求/応答サイクル）の一意識別子を表す値オブジェクト
type TurnID struct {
	value string
}

// NewTurnID は新しいTurnIDを生成
func NewTurnID() TurnID {
	// フォーマット: YYYYMMDD-HHMMSS-{UUID先頭8文字}
	now := time.Now()
	datePrefix := now.Format("20060102-150405")
	uuidStr := uuid.New().String()[:8]

	return TurnID{
		value: fmt.Sprintf("%s-%s", datePrefix, uuidStr),
	}
}

// TurnIDFromString は文字列からTurnIDを復元
func TurnIDFromString(s string) TurnID {
	return TurnID{value: s}
}

// String はTurnIDの文字列表現を返す
func (t TurnID) String() string {
	return t.value
}

// Equals は2つのTurnIDが等しいかを判定
func (t TurnID) Equals(other TurnID) bool {
	return t.value == other.value
}

// IsZero はTurnIDがゼロ値かを判定
func (t TurnID) IsZero() bool {
	return t.value == ""
}
