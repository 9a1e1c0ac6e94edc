package seed

import (
	"context"
	"fmt"
	"time"

	"donatelife/internal/utils"
	"donatelife/pkg/types"
)

type RequestRepository interface {
	Requests(ctx context.Context) ([]*types.BloodRequest, error)
	CreateRequest(ctx context.Context, request *types.BloodRequest) error
}

type fakeRequestSeed struct {
	UserID         string
	PatientName    string
	HospitalName   string
	BloodType      string
	Urgency        types.Urgency
	ContactPerson  string
	ContactPhone   string
	AdditionalInfo string
}

var fakeRequests = []fakeRequestSeed{
	{UserID: "seed-receiver-0001", PatientName: "Ahmed Raza", HospitalName: "Shaukat Khanum Memorial Hospital", BloodType: "O-", Urgency: types.UrgencyCritical, ContactPerson: "Bilal Raza", ContactPhone: "+923002220001", AdditionalInfo: "Surgery scheduled for tomorrow morning."},
	{UserID: "seed-receiver-0002", PatientName: "Emma Clark", HospitalName: "St Mary's Hospital", BloodType: "A+", Urgency: types.UrgencyHigh, ContactPerson: "Noah Clark", ContactPhone: "+447700900101"},
	{UserID: "seed-receiver-0003", PatientName: "Fatima Ali", HospitalName: "Aga Khan University Hospital", BloodType: "B+", Urgency: types.UrgencyMedium, ContactPerson: "Hassan Ali", ContactPhone: "+923002220003", AdditionalInfo: "Thalassemia patient, monthly transfusion."},
	{UserID: "seed-receiver-0004", PatientName: "Lucas Martin", HospitalName: "General Hospital", BloodType: "AB-", Urgency: types.UrgencyLow, ContactPerson: "Chloe Martin", ContactPhone: "+15550100104"},
	{UserID: "seed-receiver-0005", PatientName: "Sana Iqbal", HospitalName: "Mayo Hospital", BloodType: "O+", Urgency: types.UrgencyHigh, ContactPerson: "Imran Iqbal", ContactPhone: "+923002220005"},
}

// FakeRequests builds the seed requests, posted every 90 minutes before now.
func FakeRequests(now time.Time) []*types.BloodRequest {
	requests := make([]*types.BloodRequest, 0, len(fakeRequests))
	for i, seed := range fakeRequests {
		requests = append(requests, &types.BloodRequest{
			ID:                fmt.Sprintf("seedrequest%04d", i+1),
			UserID:            seed.UserID,
			PatientName:       seed.PatientName,
			HospitalName:      seed.HospitalName,
			RequiredBloodType: seed.BloodType,
			Urgency:           seed.Urgency,
			ContactPerson:     seed.ContactPerson,
			ContactPhone:      seed.ContactPhone,
			AdditionalInfo:    utils.OptionalString(seed.AdditionalInfo),
			CreatedAt:         types.FormatInstant(now.Add(-time.Duration(i+1) * 90 * time.Minute)),
		})
	}
	return requests
}

// SeedFakeRequests inserts the seed requests whose IDs are not present yet.
func SeedFakeRequests(ctx context.Context, repo RequestRepository, now time.Time) (int, error) {
	existing, err := repo.Requests(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch existing requests: %w", err)
	}

	present := make(map[string]bool, len(existing))
	for _, request := range existing {
		present[request.ID] = true
	}

	seeded := 0
	for _, request := range FakeRequests(now) {
		if present[request.ID] {
			continue
		}

		if err := repo.CreateRequest(ctx, request); err != nil {
			return seeded, fmt.Errorf("failed to create fake request %s: %w", request.ID, err)
		}
		seeded++
	}

	return seeded, nil
}
