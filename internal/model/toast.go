package model

import "time"

// ToastType is the severity of a toast notification.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastWarning ToastType = "warning"
	ToastInfo    ToastType = "info"
)

// Toast is a transient, self-expiring user notification.
type Toast struct {
	ID       string        `json:"id"`
	Message  string        `json:"message"`
	Type     ToastType     `json:"type"`
	Duration time.Duration `json:"duration"`
}
