package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donatelife/internal/utils"
	"donatelife/pkg/types"
)

type DonorRepository interface {
	DonorByUserID(ctx context.Context, userID string) (*types.Donor, error)
	CreateDonor(ctx context.Context, donor *types.Donor) error
}

type fakeDonorSeed struct {
	UserID       string
	FullName     string
	Email        string
	Phone        string
	BloodType    string
	DOB          string
	LastDonation string
}

var fakeDonors = []fakeDonorSeed{
	{UserID: "seed-donor-0001", FullName: "Ava Williams", Email: "ava.williams+seed1@example.com", Phone: "+15550100001", BloodType: "O+", DOB: "1990-04-12", LastDonation: "2024-01-20"},
	{UserID: "seed-donor-0002", FullName: "Liam Johnson", Email: "liam.johnson+seed2@example.com", Phone: "+15550100002", BloodType: "A-", DOB: "1985-09-30"},
	{UserID: "seed-donor-0003", FullName: "Ayesha Siddiqui", Email: "ayesha.siddiqui+seed3@example.com", Phone: "+923001110003", BloodType: "B+", DOB: "1996-02-18", LastDonation: "2023-11-02"},
	{UserID: "seed-donor-0004", FullName: "Mia Davis", Email: "mia.davis+seed4@example.com", Phone: "+447700900004", BloodType: "AB+", DOB: "1992-07-07"},
	{UserID: "seed-donor-0005", FullName: "Omar Farooq", Email: "omar.farooq+seed5@example.com", Phone: "+923001110005", BloodType: "O-", DOB: "1988-12-25", LastDonation: "2024-03-14"},
	{UserID: "seed-donor-0006", FullName: "Olivia Miller", Email: "olivia.miller+seed6@example.com", Phone: "+15550100006", BloodType: "A+", DOB: "1999-05-03"},
	{UserID: "seed-donor-0007", FullName: "Ethan Moore", Email: "ethan.moore+seed7@example.com", Phone: "+15550100007", BloodType: "B-", DOB: "1979-10-21"},
	{UserID: "seed-donor-0008", FullName: "Zara Ahmed", Email: "zara.ahmed+seed8@example.com", Phone: "+971500000008", BloodType: "AB-", DOB: "1994-01-09", LastDonation: "2023-08-30"},
}

// FakeDonors builds the seed donors, registered at hourly intervals before now.
func FakeDonors(now time.Time) []*types.Donor {
	donors := make([]*types.Donor, 0, len(fakeDonors))
	for i, seed := range fakeDonors {
		donor := &types.Donor{
			ID:                fmt.Sprintf("seeddonor%04d", i+1),
			UserID:            seed.UserID,
			FullName:          seed.FullName,
			Email:             seed.Email,
			Phone:             seed.Phone,
			BloodType:         seed.BloodType,
			DOB:               seedDate(seed.DOB),
			EligibilityAge:    "yes",
			EligibilityWeight: "yes",
			EligibilityTattoo: "no",
			EligibilityHealth: "yes",
			CreatedAt:         types.FormatInstant(now.Add(-time.Duration(i+1) * time.Hour)),
		}
		if seed.LastDonation != "" {
			donor.LastDonation = utils.StringPtr(seedDate(seed.LastDonation))
		}
		donors = append(donors, donor)
	}
	return donors
}

// SeedFakeDonors inserts the seed donors that are not registered yet and
// returns how many were created.
func SeedFakeDonors(ctx context.Context, repo DonorRepository, now time.Time) (int, error) {
	seeded := 0
	for _, donor := range FakeDonors(now) {
		_, err := repo.DonorByUserID(ctx, donor.UserID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrDonorNotFound) {
			return seeded, fmt.Errorf("failed to fetch fake donor %s: %w", donor.UserID, err)
		}

		err = repo.CreateDonor(ctx, donor)
		if errors.Is(err, types.ErrDonorExists) {
			continue
		}
		if err != nil {
			return seeded, fmt.Errorf("failed to create fake donor %s: %w", donor.UserID, err)
		}
		seeded++
	}

	return seeded, nil
}

func seedDate(v string) string {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(fmt.Sprintf("invalid seed date %q", v))
	}
	return types.FormatInstant(t)
}
