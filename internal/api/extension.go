package api

import (
	"time"

	"github.com/kataras/iris/v12"
)

type extensionRequest struct {
	RequestedEndDate time.Time `json:"requested_end_date" validate:"required"`
	Note             string    `json:"note"`
}

type decisionRequest struct {
	Action string `json:"action" validate:"required,oneof=ACCEPT DECLINE"`
	Note   string `json:"note"`
}

func (h *Handler) SubmitExtension(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := actingUser(ctx)
	if !ok {
		return
	}
	var req extensionRequest
	if !readBody(ctx, &req) {
		return
	}
	ext, err := h.svc.SubmitExtension(ctx.Request().Context(), id, userID, req.RequestedEndDate, req.Note)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(ext)
}

func (h *Handler) ListExtensions(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListExtensions(ctx.Request().Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"extensions": list})
}

func (h *Handler) DecideExtension(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := actingUser(ctx)
	if !ok {
		return
	}
	var req decisionRequest
	if !readBody(ctx, &req) {
		return
	}
	ext, err := h.svc.DecideExtension(ctx.Request().Context(), id, userID, req.Action == "ACCEPT", req.Note)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(ext)
}
