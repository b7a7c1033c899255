package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/betrules"
	"lotto-happy/internal/catalog"
	"lotto-happy/internal/services"
	"lotto-happy/internal/store"
)

var validate = validator.New()

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorMapping maps a sentinel error to its HTTP status and wire code.
type errorMapping struct {
	err    error
	status int
	code   string
}

var mappings = []errorMapping{
	{services.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
	{services.ErrDrawClosed, http.StatusConflict, backend.CodeDrawClosed},
	{services.ErrDrawCompleted, http.StatusConflict, "DRAW_COMPLETED"},
	{services.ErrDrawInPast, http.StatusUnprocessableEntity, "DRAW_IN_PAST"},
	{services.ErrInvalidDrawTime, http.StatusUnprocessableEntity, "INVALID_DRAW_TIME"},
	{services.ErrInvalidWinningNumbers, http.StatusUnprocessableEntity, backend.CodeInvalidNumbers},
	{services.ErrInvalidAmount, http.StatusUnprocessableEntity, "INVALID_AMOUNT"},
	{services.ErrInsufficientWinnings, http.StatusUnprocessableEntity, backend.CodeInsufficientBalance},
	{services.ErrInsufficientTokens, http.StatusUnprocessableEntity, backend.CodeInsufficientBalance},
	{services.ErrBelowMinimumWithdrawal, http.StatusUnprocessableEntity, backend.CodeWithdrawalMinimum},
	{services.ErrBelowMinimumRecharge, http.StatusUnprocessableEntity, "RECHARGE_MINIMUM_NOT_MET"},
	{services.ErrInvalidPhone, http.StatusUnprocessableEntity, "INVALID_PHONE"},
	{services.ErrReasonRequired, http.StatusUnprocessableEntity, "REASON_REQUIRED"},
	{services.ErrFallbackDisabled, http.StatusServiceUnavailable, "LOCAL_BOOK_DISABLED"},
	{catalog.ErrUnknownOperator, http.StatusNotFound, "UNKNOWN_OPERATOR"},
	{catalog.ErrStakeBelowMinimum, http.StatusUnprocessableEntity, "STAKE_BELOW_MINIMUM"},
	{catalog.ErrStakeAboveMaximum, http.StatusUnprocessableEntity, "STAKE_ABOVE_MAXIMUM"},
	{catalog.ErrUnknownDialCode, http.StatusUnprocessableEntity, "UNKNOWN_COUNTRY"},
	{catalog.ErrNonDigit, http.StatusUnprocessableEntity, "INVALID_PHONE"},
	{catalog.ErrPhoneLength, http.StatusUnprocessableEntity, "INVALID_PHONE"},
	{catalog.ErrUnknownProvider, http.StatusUnprocessableEntity, "UNKNOWN_PROVIDER"},
	{catalog.ErrProviderNotInCountry, http.StatusUnprocessableEntity, "PROVIDER_NOT_IN_COUNTRY"},
	{catalog.ErrPrefixMismatch, http.StatusUnprocessableEntity, "PROVIDER_PREFIX_MISMATCH"},
	{store.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{store.ErrInsufficientFunds, http.StatusUnprocessableEntity, backend.CodeInsufficientBalance},
}

// badRequest marks malformed input: undecodable bodies and bad query values.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

// writeError turns err into the JSON error envelope.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := a.classify(err)
	if status >= http.StatusInternalServerError {
		a.log.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, body)
}

func (a *API) classify(err error) (int, errorBody) {
	var (
		se  *betrules.SelectionError
		ae  *backend.APIError
		ve  validator.ValidationErrors
		bad badRequest
	)
	switch {
	case errors.As(err, &se):
		return http.StatusUnprocessableEntity, errorBody{errorDetail{Code: string(se.Reason), Message: se.Error()}}
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, errorBody{errorDetail{Code: "VALIDATION_ERROR", Message: validationMessage(ve)}}
	case errors.As(err, &bad):
		return http.StatusBadRequest, errorBody{errorDetail{Code: "BAD_REQUEST", Message: bad.Error()}}
	case errors.As(err, &ae):
		status := ae.Status
		if ae.Code == backend.CodeNetwork {
			status = http.StatusServiceUnavailable
		} else if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return status, errorBody{errorDetail{Code: ae.Code, Message: ae.Message, Details: ae.Details}}
	}
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return m.status, errorBody{errorDetail{Code: m.code, Message: err.Error()}}
		}
	}
	return http.StatusInternalServerError, errorBody{errorDetail{Code: "INTERNAL", Message: "Erreur interne du serveur"}}
}

func validationMessage(ve validator.ValidationErrors) string {
	fe := ve[0]
	return fmt.Sprintf("field %s failed %s", fe.Field(), fe.Tag())
}

// decode reads a JSON body into dst and validates its tags.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var se *betrules.SelectionError
		if errors.As(err, &se) {
			return se
		}
		return badRequest{fmt.Errorf("invalid JSON body: %w", err)}
	}
	return validate.Struct(dst)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, badRequest{fmt.Errorf("query %s: %q is not a number", key, s)}
	}
	return n, nil
}
