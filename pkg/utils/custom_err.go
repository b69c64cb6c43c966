package utils

import "errors"

var (
	ErrDatabaseError    = errors.New("database error")
	ErrRecordNotFound   = errors.New("record not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrNoDefaultPlan    = errors.New("no default plan configured")
	ErrQuotaBlocked     = errors.New("ai requests blocked")
	ErrQuotaExhausted   = errors.New("ai request quota exhausted")
	ErrCompletionFailed = errors.New("completion provider failed")
	ErrFetchFailed      = errors.New("link preview fetch failed")
)
