package types

// Donor is a registered blood donor. It is stored as a flat document; the
// optional LastDonation is omitted from the document entirely when unset.
type Donor struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	BloodType    string  `json:"bloodType"`
	DOB          string  `json:"dob"`
	LastDonation *string `json:"lastDonation,omitempty"`

	EligibilityAge    string `json:"eligibilityAge"`
	EligibilityWeight string `json:"eligibilityWeight"`
	EligibilityTattoo string `json:"eligibilityTattoo"`
	EligibilityHealth string `json:"eligibilityHealth"`

	CreatedAt string `json:"createdAt"`
}
