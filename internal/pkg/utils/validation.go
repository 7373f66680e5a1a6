package utils

import (
	"fauxhr-service/internal/pkg/constvars"
	"net/url"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("http_url", validateHTTPURL)
	validate.RegisterValidation("crmi_status", validateCrmiStatus)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateHTTPURL(fl validator.FieldLevel) bool {
	return IsHTTPURL(fl.Field().String())
}

func validateCrmiStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constvars.CrmiStatusDraft, constvars.CrmiStatusActive, constvars.CrmiStatusRetired, constvars.CrmiStatusUnknown:
		return true
	}
	return false
}

func IsHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
