package forms

import (
	"strings"
	"time"

	"donatelife/internal/utils"
	"donatelife/pkg/types"

	"github.com/asaskevich/govalidator"
)

const (
	dateLayout     = "2006-01-02"
	minNameLength  = "2"
	minPhoneLength = "7"
)

// ValidateDonor checks a donor registration submission. An empty result means
// the form can be composed into a donor.
func ValidateDonor(f types.DonorForm) types.FieldErrors {
	errs := types.FieldErrors{}

	if !govalidator.MinStringLength(f.FullName, minNameLength) {
		errs.Add("fullName", "Full name must be at least 2 characters.")
	}

	if !govalidator.IsEmail(f.Email) {
		errs.Add("email", "Please enter a valid email address.")
	}

	if strings.TrimSpace(f.CountryCode) == "" {
		errs.Add("countryCode", "Please select a country code.")
	}

	if !govalidator.MinStringLength(f.Phone, minPhoneLength) {
		errs.Add("phone", "Phone number must be at least 7 digits.")
	}

	if !types.IsBloodType(f.BloodType) {
		errs.Add("bloodType", "Please select a blood type.")
	}

	if strings.TrimSpace(f.DOB) == "" {
		errs.Add("dob", "Date of birth is required.")
	} else if _, ok := parseDate(f.DOB); !ok {
		errs.Add("dob", "Please enter a valid date.")
	}

	if strings.TrimSpace(f.LastDonation) != "" {
		if _, ok := parseDate(f.LastDonation); !ok {
			errs.Add("lastDonation", "Please enter a valid date.")
		}
	}

	if f.EligibilityAge != "yes" {
		errs.Add("eligibilityAge", "You must be between 18 and 65 years old to donate.")
	}

	if f.EligibilityWeight != "yes" {
		errs.Add("eligibilityWeight", "You must weigh over 50kg (110 lbs) to donate.")
	}

	if f.EligibilityTattoo != "no" {
		errs.Add("eligibilityTattoo", "You must not have had a tattoo, piercing, or acupuncture in the last 3 months.")
	}

	if f.EligibilityHealth != "yes" {
		errs.Add("eligibilityHealth", "You must be in good health to donate.")
	}

	return errs
}

// ComposeDonor builds the stored document from a validated form. The phone is
// the dial code followed by the local number and unset optional dates are left
// out of the document.
func ComposeDonor(userID string, f types.DonorForm, now time.Time) *types.Donor {
	donor := &types.Donor{
		UserID:            userID,
		FullName:          strings.TrimSpace(f.FullName),
		Email:             strings.TrimSpace(f.Email),
		Phone:             strings.TrimSpace(f.CountryCode) + strings.TrimSpace(f.Phone),
		BloodType:         f.BloodType,
		EligibilityAge:    f.EligibilityAge,
		EligibilityWeight: f.EligibilityWeight,
		EligibilityTattoo: f.EligibilityTattoo,
		EligibilityHealth: f.EligibilityHealth,
		CreatedAt:         types.FormatInstant(now),
	}

	if dob, ok := parseDate(f.DOB); ok {
		donor.DOB = types.FormatInstant(dob)
	}

	if last, ok := parseDate(f.LastDonation); ok {
		donor.LastDonation = utils.StringPtr(types.FormatInstant(last))
	}

	return donor
}

// NewDonorForm returns the blank registration form, prefilled with what the
// account already knows.
func NewDonorForm(name, email string) types.DonorForm {
	return types.DonorForm{
		FullName:    name,
		Email:       email,
		CountryCode: DefaultCountryCode,
	}
}

func parseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
