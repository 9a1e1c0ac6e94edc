package store

import (
	"context"
	"fmt"
	"time"

	"donatelife/internal/utils"
	"donatelife/pkg/types"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bloodRequestTableName = "donatelife.blood_requests"

var bloodRequestColumns = utils.StructTagValues(documentRow{})

type BloodRequestRepository struct {
	pool *pgxpool.Pool
}

func NewBloodRequestRepository(pool *pgxpool.Pool) *BloodRequestRepository {
	return &BloodRequestRepository{pool: pool}
}

func (r *BloodRequestRepository) Requests(ctx context.Context) ([]*types.BloodRequest, error) {
	query, args, err := psql().
		Select(bloodRequestColumns...).
		From(bloodRequestTableName).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate blood requests query: %w", err)
	}

	var rows []*documentRow
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blood requests: %w", err)
	}

	requests := make([]*types.BloodRequest, 0, len(rows))
	for _, row := range rows {
		var request = new(types.BloodRequest)
		if err := row.decode(request); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}

func (r *BloodRequestRepository) CountRequests(ctx context.Context) (int, error) {
	query, args, err := psql().
		Select("count(*)").
		From(bloodRequestTableName).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate blood request count query: %w", err)
	}

	var count int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, utils.ErrorWrapOrNil(err, "failed to count blood requests")
}

func (r *BloodRequestRepository) CreateRequest(ctx context.Context, request *types.BloodRequest) error {
	if request.ID == "" {
		request.ID = utils.NanoID()
	}

	createdAt := time.Now()
	if request.CreatedAt == "" {
		request.CreatedAt = types.FormatInstant(createdAt)
	} else if parsed, err := types.ParseInstant(request.CreatedAt); err == nil {
		createdAt = parsed
	}

	row, err := newDocumentRow(request.ID, request.UserID, createdAt, request)
	if err != nil {
		return err
	}

	query, args, err := psql().
		Insert(bloodRequestTableName).
		SetMap(utils.StructToMap(row)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert blood request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create blood request")
}
