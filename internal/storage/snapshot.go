// Package storage exports point-in-time copies of the listing collections to
// object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"donatelife/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type DonorSource interface {
	Donors(ctx context.Context) ([]*types.Donor, error)
}

type RequestSource interface {
	Requests(ctx context.Context) ([]*types.BloodRequest, error)
}

type Snapshot struct {
	TakenAt  string                `json:"takenAt"`
	Donors   []*types.Donor        `json:"donors"`
	Requests []*types.BloodRequest `json:"requests"`
}

type SnapshotStore struct {
	api      PutObjectAPI
	bucket   string
	donors   DonorSource
	requests RequestSource
	now      func() time.Time
}

func NewSnapshotStore(api PutObjectAPI, bucket string, donors DonorSource, requests RequestSource) *SnapshotStore {
	return &SnapshotStore{
		api:      api,
		bucket:   bucket,
		donors:   donors,
		requests: requests,
		now:      time.Now,
	}
}

// SnapshotKey is the object key for a snapshot taken at t.
func SnapshotKey(t time.Time) string {
	return "snapshots/" + t.UTC().Format("2006/01/02/150405") + ".json"
}

// Export reads both collections and uploads them as one JSON object. It
// returns the object key.
func (s *SnapshotStore) Export(ctx context.Context) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("snapshot bucket is not configured")
	}

	donors, err := s.donors.Donors(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read donors: %w", err)
	}

	requests, err := s.requests.Requests(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read blood requests: %w", err)
	}

	takenAt := s.now()
	data, err := json.Marshal(Snapshot{
		TakenAt:  types.FormatInstant(takenAt),
		Donors:   donors,
		Requests: requests,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := SnapshotKey(takenAt)
	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}

	return key, nil
}
