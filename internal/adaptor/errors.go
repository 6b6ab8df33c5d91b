package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"school-transport/internal/usecase"
	"school-transport/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service errors onto HTTP responses. Typed domain
// errors carry machine-readable codes; everything else is classified by
// message in the fallback switch.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var capErr *usecase.CapacityExceededError
	if errors.As(err, &capErr) {
		log.Warn(operation+" rejected - route full",
			zap.String("route_id", capErr.RouteID.String()),
			zap.String("operation", operation))
		utils.ResponseErrorCode(w, http.StatusUnprocessableEntity, usecase.CodeCapacityExceeded, err.Error())
		return
	}

	var pricingErr *usecase.PricingNotFoundError
	if errors.As(err, &pricingErr) {
		log.Warn(operation+" failed - no pricing rule",
			zap.String("plan_type", string(pricingErr.PlanType)),
			zap.String("operation", operation))
		utils.ResponseErrorCode(w, http.StatusNotFound, usecase.CodePricingNotFound, err.Error())
		return
	}

	var transitionErr *usecase.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		log.Warn(operation+" failed - invalid transition",
			zap.String("status", string(transitionErr.Status)),
			zap.String("event", string(transitionErr.Event)),
			zap.String("operation", operation))
		utils.ResponseErrorCode(w, http.StatusUnprocessableEntity, usecase.CodeInvalidTransition, err.Error())
		return
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "not found"):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "unauthorized"):
		log.Warn(operation+" failed - unauthorized",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseForbidden(w, errMsg)

	case strings.Contains(errMsg, "already"):
		log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "not active"), strings.Contains(errMsg, "disabled"):
		log.Warn(operation+" failed - inactive resource",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
