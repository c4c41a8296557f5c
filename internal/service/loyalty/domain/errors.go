// internal/service/loyalty/domain/errors.go
package domain

import "errors"

var (
	// ErrInsufficientPoints 表示兑换请求超出了客户当前余额。
	ErrInsufficientPoints = errors.New("requested points exceed current balance")
	// ErrInvalidPointsAmount 表示兑换点数必须为正数。
	ErrInvalidPointsAmount = errors.New("points must be a positive amount")
)
