package types

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, msg string) {
	if _, exists := f[field]; exists {
		return
	}
	f[field] = msg
}

func (f FieldErrors) Any() bool {
	return len(f) > 0
}

type DonorForm struct {
	FullName          string `form:"fullName"`
	Email             string `form:"email"`
	CountryCode       string `form:"countryCode"`
	Phone             string `form:"phone"`
	BloodType         string `form:"bloodType"`
	DOB               string `form:"dob"`
	LastDonation      string `form:"lastDonation"`
	EligibilityAge    string `form:"eligibilityAge"`
	EligibilityWeight string `form:"eligibilityWeight"`
	EligibilityTattoo string `form:"eligibilityTattoo"`
	EligibilityHealth string `form:"eligibilityHealth"`
}

type BloodRequestForm struct {
	PatientName       string `form:"patientName"`
	HospitalName      string `form:"hospitalName"`
	RequiredBloodType string `form:"requiredBloodType"`
	Urgency           string `form:"urgency"`
	ContactPerson     string `form:"contactPerson"`
	CountryCode       string `form:"countryCode"`
	ContactPhone      string `form:"contactPhone"`
	AdditionalInfo    string `form:"additionalInfo"`
}

type AuthMode string

const (
	AuthModeSignIn AuthMode = "signin"
	AuthModeSignUp AuthMode = "signup"
)

// AuthForm is the raw login page submission. Which fields matter depends on Mode.
type AuthForm struct {
	Mode            AuthMode `form:"mode"`
	FullName        string   `form:"fullName"`
	Email           string   `form:"email"`
	Password        string   `form:"password"`
	ConfirmPassword string   `form:"confirmPassword"`
}

type ConfirmSignUpForm struct {
	Email string `form:"email"`
	Code  string `form:"code"`
}

type DisplayNameForm struct {
	DisplayName string `form:"displayName"`
}

type CountryCode struct {
	ISO  string
	Dial string
	Name string
}

// StatsData holds the home page counters. A count that could not be read is
// flagged unavailable rather than shown as zero.
type StatsData struct {
	TotalDonors         int
	DonorsUnavailable   bool
	ActiveRequests      int
	RequestsUnavailable bool
	BloodTypes          int
}
