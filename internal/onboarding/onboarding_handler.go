package onboarding

import (
	"net/http"

	"go-onboard/internal/employee"
	onboardingerrors "go-onboard/internal/onboarding/errors"
	"go-onboard/internal/shared/apperror"
	"go-onboard/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("onboarding.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onboarding.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("onboarding request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// RunCycle adalah entry point trigger terjadwal: satu kali poll-and-process.
func (h *Handler) RunCycle(c *gin.Context) {
	h.logger.Debug("http run onboarding cycle")

	report, err := h.service.RunCycle(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapToCycleResponse(report), nil)
}

// Provision menjalankan langkah provisioning saja untuk satu karyawan yang
// dikirim dalam payload (pola sub-invocation).
func (h *Handler) Provision(c *gin.Context) {
	var payload EmployeePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("http provision validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	outcome := h.service.Provision(c.Request.Context(), payloadToEmployee(payload))
	if outcome.Err != nil {
		h.writeServiceError(c, apperror.Wrap(
			outcome.Err,
			onboardingerrors.ErrProvisioningFailed.Code,
			onboardingerrors.ErrProvisioningFailed.Message,
			onboardingerrors.ErrProvisioningFailed.HTTPStatus,
		))
		return
	}

	response.Success(c, http.StatusOK, ProvisionResponse{
		EmployeeID: outcome.EmployeeID,
		Status:     string(outcome.Status),
	}, nil)
}

// Notify menjalankan langkah notifikasi saja untuk satu karyawan dalam payload.
func (h *Handler) Notify(c *gin.Context) {
	var payload EmployeePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("http notify validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	outcome := h.service.Notify(c.Request.Context(), payloadToEmployee(payload))
	if outcome.Err != nil {
		h.writeServiceError(c, apperror.Wrap(
			outcome.Err,
			onboardingerrors.ErrNotificationFailed.Code,
			onboardingerrors.ErrNotificationFailed.Message,
			onboardingerrors.ErrNotificationFailed.HTTPStatus,
		))
		return
	}

	response.Success(c, http.StatusOK, NotifyResponse{
		EmployeeID: outcome.EmployeeID,
		MessageID:  outcome.MessageID,
	}, nil)
}

func payloadToEmployee(p EmployeePayload) employee.Employee {
	return employee.Employee{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Department: p.Department,
		Role:       p.Role,
	}
}
