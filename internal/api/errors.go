// Package api exposes the contract workflow over REST. Identity is an
// external collaborator: handlers trust the X-Acting-User header and leave
// verification to the gateway in front of the service.
package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"

	"github.com/rentova-solution/contract-workflow-service/internal/workflow"
)

func jsonError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

// respondError maps domain error codes onto HTTP statuses. Anything without
// a domain code is a 500.
func respondError(ctx iris.Context, err error) {
	code := workflow.CodeOf(err)
	var status int
	switch code {
	case workflow.CodeValidation:
		status = iris.StatusBadRequest
	case workflow.CodeNotFound:
		status = iris.StatusNotFound
	case workflow.CodeOTPInvalid:
		status = iris.StatusUnauthorized
	case workflow.CodeNotEntitled:
		status = iris.StatusForbidden
	case workflow.CodeInvalidStatus, workflow.CodeAlreadySigned, workflow.CodePartyNotFound,
		workflow.CodeTerminationPending, workflow.CodeTerminationClosed, workflow.CodeConsentSigned,
		workflow.CodeExtensionPending, workflow.CodeNotExpirable:
		status = iris.StatusConflict
	default:
		jsonError(ctx, iris.StatusInternalServerError, "INTERNAL", "internal server error")
		return
	}
	message := err.Error()
	var de *workflow.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	jsonError(ctx, status, string(code), message)
}

// handleValidationErrors renders field-level failures from the request
// validator.
func handleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]iris.Map, 0, len(errs))
		for _, fe := range errs {
			fields = append(fields, iris.Map{"field": fe.Field(), "rule": fe.Tag()})
		}
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "VALIDATION_FAILED", "message": "invalid request body", "fields": fields})
		return
	}
	jsonError(ctx, iris.StatusBadRequest, "VALIDATION_FAILED", "malformed request body")
}
