package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"otp-service/internal/data/entity"
	"otp-service/internal/dto/request"
	"otp-service/internal/dto/response"
	"otp-service/internal/usecase"
	"otp-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OTPHandler struct {
	service usecase.OTPService
	log     *zap.Logger
}

func NewOTPHandler(service usecase.OTPService, log *zap.Logger) *OTPHandler {
	return &OTPHandler{
		service: service,
		log:     log,
	}
}

// SendSMS handles POST /api/otp/sms/send
func (h *OTPHandler) SendSMS(w http.ResponseWriter, r *http.Request) {
	var req request.SendSMSOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp := h.service.SendSMSOTP(r.Context(), req.PhoneNumber)
	h.writeOTPResponse(w, resp, "send SMS OTP")
}

// SendEmail handles POST /api/otp/email/send
func (h *OTPHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req request.SendEmailOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp := h.service.SendEmailOTP(r.Context(), req.Email)
	h.writeOTPResponse(w, resp, "send email OTP")
}

// Verify handles POST /api/otp/verify
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp := h.service.VerifyOTP(r.Context(), req.OTPID, req.OTPCode, entity.OTPType(req.Type))
	if resp.Success {
		utils.ResponseSuccess(w, resp.Message, resp)
		return
	}

	h.log.Warn("verify OTP failed",
		zap.String("otp_id", req.OTPID),
		zap.String("error_kind", string(resp.ErrorKind)),
	)
	utils.ResponseJSON(w, statusForKind(resp.ErrorKind), false, resp.Message, resp, nil)
}

// Resend handles POST /api/otp/resend
func (h *OTPHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req request.ResendOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp := h.service.ResendOTP(r.Context(), req.PhoneNumber, req.Email)
	h.writeOTPResponse(w, resp, "resend OTP")
}

// Status handles GET /api/otp/{id}/status
func (h *OTPHandler) Status(w http.ResponseWriter, r *http.Request) {
	otpID := chi.URLParam(r, "id")

	status := h.service.GetOTPStatus(r.Context(), otpID)
	utils.ResponseSuccess(w, "OTP status retrieved", status)
}

// Cleanup handles POST /api/admin/otp/cleanup. The sweep runs in the
// background and outlives the request.
func (h *OTPHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	go h.service.CleanupExpiredOTPs(ctx)

	h.log.Info("OTP cleanup triggered", zap.String("ip", r.RemoteAddr))
	utils.ResponseAccepted(w, "Cleanup started", nil)
}

func (h *OTPHandler) writeOTPResponse(w http.ResponseWriter, resp *response.OTPResponse, operation string) {
	if resp.Success {
		utils.ResponseCreated(w, resp.Message, resp)
		return
	}

	code := statusForKind(resp.ErrorKind)
	if code >= http.StatusInternalServerError {
		h.log.Error("Failed to "+operation, zap.String("error_kind", string(resp.ErrorKind)))
	} else {
		h.log.Warn(operation+" rejected", zap.String("error_kind", string(resp.ErrorKind)))
	}

	if resp.ErrorKind == response.ErrorKindRateLimited {
		if resp.RetryAfterSeconds > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(resp.RetryAfterSeconds))
		}
		utils.ResponseTooManyRequests(w, resp.Message, resp)
		return
	}
	utils.ResponseJSON(w, code, false, resp.Message, resp, nil)
}

// statusForKind maps a result's error kind to an HTTP status.
func statusForKind(kind response.ErrorKind) int {
	switch kind {
	case response.ErrorKindValidation,
		response.ErrorKindInvalidOrExpired,
		response.ErrorKindInvalidCode:
		return http.StatusBadRequest
	case response.ErrorKindExpired:
		return http.StatusGone
	case response.ErrorKindRateLimited:
		return http.StatusTooManyRequests
	case response.ErrorKindDelivery:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
