package api

import (
	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
)

type otpRequest struct {
	PartyID string `json:"party_id" validate:"required,uuid"`
}

type signRequest struct {
	PartyID string `json:"party_id" validate:"required,uuid"`
	OTP     string `json:"otp" validate:"required,len=6,numeric"`
	Payload string `json:"payload" validate:"required"`
}

func (h *Handler) RequestSignOTP(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req otpRequest
	if !readBody(ctx, &req) {
		return
	}
	if err := h.svc.RequestSignOTP(ctx.Request().Context(), id, uuid.MustParse(req.PartyID)); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusAccepted)
	ctx.JSON(iris.Map{"message": "verification code sent"})
}

func (h *Handler) Sign(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req signRequest
	if !readBody(ctx, &req) {
		return
	}
	view, err := h.svc.Sign(ctx.Request().Context(), id, uuid.MustParse(req.PartyID), req.OTP, req.Payload)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(view)
}
