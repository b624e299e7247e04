package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/greekops/chapterdata/modules/roster/domain/officer"
)

type PgOfficerRepository struct {
	db DB
}

func NewOfficerRepository(db DB) officer.Repository {
	return &PgOfficerRepository{db: db}
}

const officerColumns = `
	id, full_name, position, position_custom, email, phone, bio,
	display_order, is_active, term_start, term_end, created_at, updated_at`

func (r *PgOfficerRepository) GetByKey(ctx context.Context, fullName, position string) (*officer.Officer, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+officerColumns+` FROM officers WHERE lower(full_name)=lower($1) AND position=$2`,
		strings.TrimSpace(fullName), position)
	o, err := scanOfficer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, officer.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *PgOfficerRepository) GetAll(ctx context.Context) ([]*officer.Officer, error) {
	rows, err := r.db.Query(ctx, `SELECT`+officerColumns+` FROM officers ORDER BY display_order, position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*officer.Officer
	for rows.Next() {
		o, err := scanOfficer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PgOfficerRepository) Create(ctx context.Context, o *officer.Officer) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	_, err := r.db.Exec(ctx, `
		INSERT INTO officers (
			id, full_name, position, position_custom, email, phone, bio,
			display_order, is_active, term_start, term_end, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		o.ID, o.FullName, o.Position, o.PositionCustom, o.Email, o.Phone, o.Bio,
		o.DisplayOrder, o.IsActive, pgDate(o.TermStart), pgDate(o.TermEnd),
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to create officer")
	}
	return nil
}

func (r *PgOfficerRepository) Update(ctx context.Context, o *officer.Officer) error {
	o.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE officers SET
			full_name=$2, position=$3, position_custom=$4, email=$5, phone=$6,
			bio=$7, display_order=$8, is_active=$9, term_start=$10, term_end=$11,
			updated_at=$12
		WHERE id=$1`,
		o.ID, o.FullName, o.Position, o.PositionCustom, o.Email, o.Phone,
		o.Bio, o.DisplayOrder, o.IsActive, pgDate(o.TermStart), pgDate(o.TermEnd),
		o.UpdatedAt,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update officer")
	}
	if tag.RowsAffected() == 0 {
		return officer.ErrNotFound
	}
	return nil
}

func (r *PgOfficerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM officers WHERE id=$1`, id)
	return err
}

func scanOfficer(row pgx.Row) (*officer.Officer, error) {
	var (
		o         officer.Officer
		termStart pgtype.Date
		termEnd   pgtype.Date
	)
	err := row.Scan(
		&o.ID, &o.FullName, &o.Position, &o.PositionCustom, &o.Email, &o.Phone,
		&o.Bio, &o.DisplayOrder, &o.IsActive, &termStart, &termEnd,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if termStart.Valid {
		o.TermStart = termStart.Time
	}
	if termEnd.Valid {
		o.TermEnd = termEnd.Time
	}
	return &o, nil
}
