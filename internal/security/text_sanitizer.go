// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はユーザー入力の自由記述フィールド（エリア説明、
// 目標説明、リフレクションのメモやムードタグ）をサニタイズし、
// 保存されたHTMLが後段のUIでそのまま描画されることによるXSSを防ぐ。
// bluemondayのStrictPolicyをベースに、全てのタグと属性を除去して
// プレーンテキストのみを通過させる。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService は自由記述テキストのサニタイズ機能のインターフェースを定義する。
// レコードの保存前に使用される。
type TextSanitizerService interface {
	// Sanitize は入力テキストから全てのHTMLタグと属性を除去して返す。
	// 前後の空白もトリムする。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（全タグ除去）を使用する。
func NewTextSanitizer() TextSanitizerService {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストから全てのHTMLタグと属性を除去して返す。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
