package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kataras/iris/v12"

	"github.com/rentova-solution/contract-workflow-service/internal/service"
)

var validate = validator.New()

// Handler carries the workflow service into the route handlers.
type Handler struct {
	svc *service.WorkflowService
}

func NewHandler(svc *service.WorkflowService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts every workflow route under /api/contracts.
func Register(app *iris.Application, svc *service.WorkflowService) {
	h := NewHandler(svc)

	contracts := app.Party("/api/contracts")
	contracts.Post("", h.CreateDraft)
	contracts.Get("", h.ListContracts)

	single := contracts.Party("/{id:uuid}")
	single.Get("", h.GetContract)
	single.Patch("", h.UpdateDraft)
	single.Delete("", h.DeleteDraft)
	single.Post("/send", h.SendContract)
	single.Post("/otp", h.RequestSignOTP)
	single.Post("/sign", h.Sign)

	single.Post("/termination", h.RequestTermination)
	single.Get("/termination", h.GetTermination)
	term := single.Party("/termination/{reqId:uuid}")
	term.Post("/otp", h.RequestConsentOTP)
	term.Post("/consent", h.SubmitConsent)
	term.Post("/decline", h.DeclineTermination)

	single.Get("/extensions", h.ListExtensions)
	single.Post("/extensions", h.SubmitExtension)
	single.Post("/extensions/decision", h.DecideExtension)

	single.Get("/invoices", h.ListInvoices)
	single.Post("/invoices", h.CreateServiceInvoice)
}

func pathID(ctx iris.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Params().Get(name))
	if err != nil {
		jsonError(ctx, iris.StatusBadRequest, "VALIDATION_FAILED", "invalid "+name+" path parameter")
		return uuid.Nil, false
	}
	return id, true
}

// actingUser resolves the caller from the X-Acting-User header set by the
// authenticating gateway.
func actingUser(ctx iris.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.GetHeader("X-Acting-User"))
	if err != nil {
		jsonError(ctx, iris.StatusUnauthorized, "UNAUTHENTICATED", "missing or invalid X-Acting-User header")
		return uuid.Nil, false
	}
	return id, true
}

func readBody(ctx iris.Context, dst interface{}) bool {
	if err := ctx.ReadJSON(dst); err != nil {
		jsonError(ctx, iris.StatusBadRequest, "VALIDATION_FAILED", "malformed request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		handleValidationErrors(err, ctx)
		return false
	}
	return true
}
