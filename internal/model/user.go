// Package model はドメインモデルを定義する。
package model

import "time"

// User は外部認証で本人確認されたユーザーを表す。
// お気に入りや買い物リストはこのIDに紐づく。
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部IdPのアカウントとUserの対応を表す。
type Identity struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session はCookieで保持するログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
