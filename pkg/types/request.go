package types

// BloodRequest is a posted need for blood on behalf of a patient.
type BloodRequest struct {
	ID                string  `json:"id"`
	UserID            string  `json:"userId"`
	PatientName       string  `json:"patientName"`
	HospitalName      string  `json:"hospitalName"`
	RequiredBloodType string  `json:"requiredBloodType"`
	Urgency           Urgency `json:"urgency"`
	ContactPerson     string  `json:"contactPerson"`
	ContactPhone      string  `json:"contactPhone"`
	AdditionalInfo    *string `json:"additionalInfo,omitempty"`
	CreatedAt         string  `json:"createdAt"`
}
