package store

import (
	"context"
	"fmt"
	"time"

	"donatelife/internal/utils"
	"donatelife/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const donorTableName = "donatelife.donors"

var donorColumns = utils.StructTagValues(documentRow{})

type DonorRepository struct {
	pool *pgxpool.Pool
}

func NewDonorRepository(pool *pgxpool.Pool) *DonorRepository {
	return &DonorRepository{pool: pool}
}

// DonorByUserID is an existence check: it returns at most one donor owned by
// userID, or types.ErrDonorNotFound.
func (r *DonorRepository) DonorByUserID(ctx context.Context, userID string) (*types.Donor, error) {
	query, args, err := psql().
		Select(donorColumns...).
		From(donorTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor by user query: %w", err)
	}

	var row documentRow
	err = pgxscan.Get(ctx, r.pool, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonorNotFound
		}
		return nil, fmt.Errorf("failed to fetch donor by user: %w", err)
	}

	var donor = new(types.Donor)
	if err := row.decode(donor); err != nil {
		return nil, err
	}

	return donor, nil
}

func (r *DonorRepository) Donors(ctx context.Context) ([]*types.Donor, error) {
	query, args, err := psql().
		Select(donorColumns...).
		From(donorTableName).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donors query: %w", err)
	}

	var rows []*documentRow
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donors: %w", err)
	}

	donors := make([]*types.Donor, 0, len(rows))
	for _, row := range rows {
		var donor = new(types.Donor)
		if err := row.decode(donor); err != nil {
			return nil, err
		}
		donors = append(donors, donor)
	}

	return donors, nil
}

func (r *DonorRepository) CountDonors(ctx context.Context) (int, error) {
	query, args, err := psql().
		Select("count(*)").
		From(donorTableName).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate donor count query: %w", err)
	}

	var count int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, utils.ErrorWrapOrNil(err, "failed to count donors")
}

// CreateDonor assigns an ID when missing and inserts the donor. A second donor
// for the same account is rejected with types.ErrDonorExists.
func (r *DonorRepository) CreateDonor(ctx context.Context, donor *types.Donor) error {
	if donor.ID == "" {
		donor.ID = utils.NanoID()
	}

	createdAt := time.Now()
	if donor.CreatedAt == "" {
		donor.CreatedAt = types.FormatInstant(createdAt)
	} else if parsed, err := types.ParseInstant(donor.CreatedAt); err == nil {
		createdAt = parsed
	}

	row, err := newDocumentRow(donor.ID, donor.UserID, createdAt, donor)
	if err != nil {
		return err
	}

	query, args, err := psql().
		Insert(donorTableName).
		SetMap(utils.StructToMap(row)).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert donor query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create donor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonorExists
	}

	return nil
}
