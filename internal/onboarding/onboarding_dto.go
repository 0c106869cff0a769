package onboarding

import (
	"go-onboard/internal/identity"
	"go-onboard/internal/notify"
)

// EmployeeOutcome adalah hasil sekali jalan pipeline untuk satu karyawan.
// Ephemeral: hanya dipakai untuk pelaporan dan keputusan aktivasi, tidak disimpan.
type EmployeeOutcome struct {
	EmployeeID    uint
	Email         string
	Provisioning  identity.ProvisionOutcome
	Notification  notify.NotifyOutcome
	Activated     bool
	ActivationErr error
}

type CycleReport struct {
	Processed int
	Activated int
	Outcomes  []EmployeeOutcome
}

// EmployeePayload adalah bentuk kawat untuk entry point per-langkah
// (provision / notify), meniru payload trigger lama.
type EmployeePayload struct {
	ID         uint   `json:"id"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

type ProvisionResponse struct {
	EmployeeID uint   `json:"employee_id"`
	Status     string `json:"status"`
}

type NotifyResponse struct {
	EmployeeID uint   `json:"employee_id"`
	MessageID  string `json:"message_id"`
}

type OutcomeResponse struct {
	EmployeeID         uint   `json:"employee_id"`
	Email              string `json:"email"`
	ProvisioningStatus string `json:"provisioning_status"`
	ProvisioningError  string `json:"provisioning_error,omitempty"`
	NotificationID     string `json:"notification_id,omitempty"`
	NotificationError  string `json:"notification_error,omitempty"`
	Activated          bool   `json:"activated"`
	ActivationError    string `json:"activation_error,omitempty"`
}

type CycleResponse struct {
	Processed int               `json:"processed"`
	Activated int               `json:"activated"`
	Outcomes  []OutcomeResponse `json:"outcomes"`
}

func mapToCycleResponse(report CycleReport) CycleResponse {
	outcomes := make([]OutcomeResponse, len(report.Outcomes))
	for i, o := range report.Outcomes {
		outcomes[i] = mapToOutcomeResponse(o)
	}
	return CycleResponse{
		Processed: report.Processed,
		Activated: report.Activated,
		Outcomes:  outcomes,
	}
}

func mapToOutcomeResponse(o EmployeeOutcome) OutcomeResponse {
	resp := OutcomeResponse{
		EmployeeID:         o.EmployeeID,
		Email:              o.Email,
		ProvisioningStatus: string(o.Provisioning.Status),
		NotificationID:     o.Notification.MessageID,
		Activated:          o.Activated,
	}
	if o.Provisioning.Err != nil {
		resp.ProvisioningError = o.Provisioning.Err.Error()
	}
	if o.Notification.Err != nil {
		resp.NotificationError = o.Notification.Err.Error()
	}
	if o.ActivationErr != nil {
		resp.ActivationError = o.ActivationErr.Error()
	}
	return resp
}
