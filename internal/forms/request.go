package forms

import (
	"strings"
	"time"

	"donatelife/internal/utils"
	"donatelife/pkg/types"

	"github.com/asaskevich/govalidator"
)

func ValidateRequest(f types.BloodRequestForm) types.FieldErrors {
	errs := types.FieldErrors{}

	if !govalidator.MinStringLength(f.PatientName, minNameLength) {
		errs.Add("patientName", "Patient name must be at least 2 characters.")
	}

	if !govalidator.MinStringLength(f.HospitalName, minNameLength) {
		errs.Add("hospitalName", "Hospital name is required.")
	}

	if !types.IsBloodType(f.RequiredBloodType) {
		errs.Add("requiredBloodType", "Please select a blood type.")
	}

	if !types.Urgency(f.Urgency).Valid() {
		errs.Add("urgency", "Please select an urgency level.")
	}

	if !govalidator.MinStringLength(f.ContactPerson, minNameLength) {
		errs.Add("contactPerson", "Contact person name is required.")
	}

	if strings.TrimSpace(f.CountryCode) == "" {
		errs.Add("countryCode", "Please select a country code.")
	}

	if !govalidator.MinStringLength(f.ContactPhone, minPhoneLength) {
		errs.Add("contactPhone", "Phone number must be at least 7 digits.")
	}

	return errs
}

func ComposeRequest(userID string, f types.BloodRequestForm, now time.Time) *types.BloodRequest {
	return &types.BloodRequest{
		UserID:            userID,
		PatientName:       strings.TrimSpace(f.PatientName),
		HospitalName:      strings.TrimSpace(f.HospitalName),
		RequiredBloodType: f.RequiredBloodType,
		Urgency:           types.Urgency(f.Urgency),
		ContactPerson:     strings.TrimSpace(f.ContactPerson),
		ContactPhone:      strings.TrimSpace(f.CountryCode) + strings.TrimSpace(f.ContactPhone),
		AdditionalInfo:    utils.OptionalString(strings.TrimSpace(f.AdditionalInfo)),
		CreatedAt:         types.FormatInstant(now),
	}
}

func NewRequestForm() types.BloodRequestForm {
	return types.BloodRequestForm{
		CountryCode: DefaultCountryCode,
	}
}
