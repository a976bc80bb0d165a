package api

import (
	"github.com/google/uuid"
	"github.com/kataras/iris/v12"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

type terminationRequest struct {
	Type   string `json:"type" validate:"required,oneof=EARLY_TERMINATE NORMAL_EXPIRE"`
	Reason string `json:"reason"`
}

type consentRequest struct {
	PartyID string `json:"party_id" validate:"required,uuid"`
	OTP     string `json:"otp" validate:"required,len=6,numeric"`
}

type declineRequest struct {
	PartyID string `json:"party_id" validate:"required,uuid"`
}

func (h *Handler) RequestTermination(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := actingUser(ctx)
	if !ok {
		return
	}
	var req terminationRequest
	if !readBody(ctx, &req) {
		return
	}
	tv, err := h.svc.RequestTermination(ctx.Request().Context(), id, userID, model.TerminationType(req.Type), req.Reason)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(tv)
}

func (h *Handler) GetTermination(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	tv, err := h.svc.GetActiveTermination(ctx.Request().Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if tv == nil {
		jsonError(ctx, iris.StatusNotFound, "NOT_FOUND", "no open termination request on this contract")
		return
	}
	ctx.JSON(tv)
}

func (h *Handler) RequestConsentOTP(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	reqID, ok := pathID(ctx, "reqId")
	if !ok {
		return
	}
	var req otpRequest
	if !readBody(ctx, &req) {
		return
	}
	if err := h.svc.RequestConsentOTP(ctx.Request().Context(), id, reqID, uuid.MustParse(req.PartyID)); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusAccepted)
	ctx.JSON(iris.Map{"message": "verification code sent"})
}

func (h *Handler) SubmitConsent(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	reqID, ok := pathID(ctx, "reqId")
	if !ok {
		return
	}
	var req consentRequest
	if !readBody(ctx, &req) {
		return
	}
	tv, err := h.svc.SubmitConsent(ctx.Request().Context(), id, reqID, uuid.MustParse(req.PartyID), req.OTP)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(tv)
}

func (h *Handler) DeclineTermination(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	reqID, ok := pathID(ctx, "reqId")
	if !ok {
		return
	}
	var req declineRequest
	if !readBody(ctx, &req) {
		return
	}
	tv, err := h.svc.DeclineTermination(ctx.Request().Context(), id, reqID, uuid.MustParse(req.PartyID))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(tv)
}
