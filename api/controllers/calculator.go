package controllers

import (
	"context"
	"net/http"

	"github.com/powercore-shop/storefront/api/responses"
	"github.com/powercore-shop/storefront/api/validators"
	"github.com/powercore-shop/storefront/internal/gateway"
	"github.com/powercore-shop/storefront/pkg/logger"
)

// CalculatorService is the slice of the gateway the sizing routes consume.
type CalculatorService interface {
	CalculatePowerBank(ctx context.Context, req gateway.PowerBankCalcRequest) (gateway.PowerBankCalcResponse, error)
	CalculateUPS(ctx context.Context, req gateway.UPSCalcRequest) (gateway.UPSCalcResponse, error)
}

func CalculatorPowerBank(svc CalculatorService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload gateway.PowerBankCalcRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CalculatePowerBank(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CalculatorUPS(svc CalculatorService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload gateway.UPSCalcRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CalculateUPS(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
