package onboardingerrors

import (
	"net/http"

	"go-onboard/internal/shared/apperror"
)

var (
	ErrFetchPendingFailed = apperror.New(
		apperror.CodeServiceUnavailable,
		"Failed to fetch pending employees",
		http.StatusInternalServerError,
	)
	ErrProvisioningFailed = apperror.New(
		apperror.CodeInternalError,
		"Identity provisioning failed",
		http.StatusInternalServerError,
	)
	ErrNotificationFailed = apperror.New(
		apperror.CodeInternalError,
		"Welcome notification dispatch failed",
		http.StatusInternalServerError,
	)
	ErrInvalidEmployeePayload = apperror.New(
		apperror.CodeInvalidInput,
		"Employee payload is missing required fields",
		http.StatusBadRequest,
	)
)
