package handlers

import (
	"webapp_validator/internal/service"
)

type Handler struct {
	Verifier     *service.VerifyService
	MaxBodyBytes int64
}

func NewHandler(verifier *service.VerifyService, maxBodyBytes int64) *Handler {
	return &Handler{
		Verifier:     verifier,
		MaxBodyBytes: maxBodyBytes,
	}
}
