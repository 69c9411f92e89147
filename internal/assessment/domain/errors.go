package domain

import "errors"

var (
	ErrInvalidPeriod   = errors.New("invalid_period")
	ErrCompanyNotFound = errors.New("company_not_found")
	ErrPartnerNotFound = errors.New("partner_not_found")
)
