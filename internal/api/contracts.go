package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
	"github.com/rentova-solution/contract-workflow-service/internal/service"
)

type draftRequest struct {
	UnitID         string    `json:"unit_id" validate:"required,uuid"`
	LandlordUserID string    `json:"landlord_user_id" validate:"required,uuid"`
	TenantUserID   string    `json:"tenant_user_id" validate:"required,uuid"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
	DepositAmount  int64     `json:"deposit_amount" validate:"gte=0"`
	RentAmount     int64     `json:"rent_amount" validate:"gt=0"`
	FeeDetail      string    `json:"fee_detail"`
}

type sendRequest struct {
	TemplateCode  string `json:"template_code" validate:"required"`
	Content       string `json:"content" validate:"required"`
	LandlordEmail string `json:"landlord_email" validate:"required,email"`
	LandlordPhone string `json:"landlord_phone"`
	TenantEmail   string `json:"tenant_email" validate:"required,email"`
	TenantPhone   string `json:"tenant_phone"`
}

type invoiceRequest struct {
	Amount      int64  `json:"amount" validate:"gt=0"`
	Description string `json:"description" validate:"required"`
}

func (h *Handler) CreateDraft(ctx iris.Context) {
	var req draftRequest
	if !readBody(ctx, &req) {
		return
	}
	c := &model.Contract{
		UnitID:         uuid.MustParse(req.UnitID),
		LandlordUserID: uuid.MustParse(req.LandlordUserID),
		TenantUserID:   uuid.MustParse(req.TenantUserID),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		DepositAmount:  req.DepositAmount,
		RentAmount:     req.RentAmount,
		FeeDetail:      req.FeeDetail,
	}
	created, err := h.svc.CreateDraft(ctx.Request().Context(), c)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(created)
}

func (h *Handler) ListContracts(ctx iris.Context) {
	userID, ok := actingUser(ctx)
	if !ok {
		return
	}
	list, err := h.svc.ListForUser(ctx.Request().Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"contracts": list})
}

func (h *Handler) GetContract(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := h.svc.GetView(ctx.Request().Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(view)
}

func (h *Handler) UpdateDraft(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req draftRequest
	if !readBody(ctx, &req) {
		return
	}
	c := &model.Contract{
		ID:            id,
		UnitID:        uuid.MustParse(req.UnitID),
		TenantUserID:  uuid.MustParse(req.TenantUserID),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		DepositAmount: req.DepositAmount,
		RentAmount:    req.RentAmount,
		FeeDetail:     req.FeeDetail,
	}
	updated, err := h.svc.UpdateDraft(ctx.Request().Context(), c)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(updated)
}

func (h *Handler) DeleteDraft(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteDraft(ctx.Request().Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

func (h *Handler) SendContract(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req sendRequest
	if !readBody(ctx, &req) {
		return
	}
	view, err := h.svc.Send(ctx.Request().Context(), id, service.SendInput{
		TemplateCode:  req.TemplateCode,
		Content:       req.Content,
		LandlordEmail: req.LandlordEmail,
		LandlordPhone: req.LandlordPhone,
		TenantEmail:   req.TenantEmail,
		TenantPhone:   req.TenantPhone,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(view)
}

func (h *Handler) ListInvoices(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	invoices, err := h.svc.ListInvoices(ctx.Request().Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"invoices": invoices})
}

func (h *Handler) CreateServiceInvoice(ctx iris.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req invoiceRequest
	if !readBody(ctx, &req) {
		return
	}
	inv, err := h.svc.CreateServiceInvoice(ctx.Request().Context(), id, req.Amount, req.Description)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(inv)
}
