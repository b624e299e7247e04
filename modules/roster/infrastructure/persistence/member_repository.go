package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/greekops/chapterdata/modules/roster/domain/member"
)

// DB is the subset of pgxpool.Pool the repositories need; pgx.Tx satisfies it
// too.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgMemberRepository struct {
	db DB
}

func NewMemberRepository(db DB) member.Repository {
	return &PgMemberRepository{db: db}
}

const memberColumns = `
	id, member_number, first_name, last_name, email, phone, address,
	line_name, line_number, status, initiation_date, dues_current,
	marked_for_removal_at, removal_reason, created_at, updated_at`

func (r *PgMemberRepository) GetByNumber(ctx context.Context, number string) (*member.Member, error) {
	row := r.db.QueryRow(ctx, `SELECT`+memberColumns+` FROM members WHERE member_number=$1`, number)
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, member.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *PgMemberRepository) GetAll(ctx context.Context) ([]*member.Member, error) {
	rows, err := r.db.Query(ctx, `SELECT`+memberColumns+` FROM members ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (r *PgMemberRepository) GetMarked(ctx context.Context) ([]*member.Member, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+memberColumns+` FROM members WHERE marked_for_removal_at IS NOT NULL ORDER BY marked_for_removal_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (r *PgMemberRepository) Create(ctx context.Context, m *member.Member) error {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	_, err := r.db.Exec(ctx, `
		INSERT INTO members (
			id, member_number, first_name, last_name, email, phone, address,
			line_name, line_number, status, initiation_date, dues_current,
			marked_for_removal_at, removal_reason, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		m.ID, m.MemberNumber, m.FirstName, m.LastName, m.Email, m.Phone, m.Address,
		m.LineName, m.LineNumber, string(m.Status), pgDate(m.InitiationDate), m.DuesCurrent,
		pgTimestamptz(m.MarkedForRemovalAt), m.RemovalReason, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to create member")
	}
	return nil
}

func (r *PgMemberRepository) Update(ctx context.Context, m *member.Member) error {
	m.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE members SET
			first_name=$2, last_name=$3, email=$4, phone=$5, address=$6,
			line_name=$7, line_number=$8, status=$9, initiation_date=$10,
			dues_current=$11, marked_for_removal_at=$12, removal_reason=$13,
			updated_at=$14
		WHERE id=$1`,
		m.ID, m.FirstName, m.LastName, m.Email, m.Phone, m.Address,
		m.LineName, m.LineNumber, string(m.Status), pgDate(m.InitiationDate),
		m.DuesCurrent, pgTimestamptz(m.MarkedForRemovalAt), m.RemovalReason,
		m.UpdatedAt,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update member")
	}
	if tag.RowsAffected() == 0 {
		return member.ErrNotFound
	}
	return nil
}

func (r *PgMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM members WHERE id=$1`, id)
	return err
}

func scanMember(row pgx.Row) (*member.Member, error) {
	var (
		m          member.Member
		status     string
		initiation pgtype.Date
		marked     pgtype.Timestamptz
	)
	err := row.Scan(
		&m.ID, &m.MemberNumber, &m.FirstName, &m.LastName, &m.Email, &m.Phone,
		&m.Address, &m.LineName, &m.LineNumber, &status, &initiation,
		&m.DuesCurrent, &marked, &m.RemovalReason, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Status = member.Status(status)
	if initiation.Valid {
		m.InitiationDate = initiation.Time
	}
	if marked.Valid {
		t := marked.Time.UTC()
		m.MarkedForRemovalAt = &t
	}
	return &m, nil
}

func collectMembers(rows pgx.Rows) ([]*member.Member, error) {
	var out []*member.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func pgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	u := t.UTC()
	y, mo, d := u.Date()
	return pgtype.Date{Time: time.Date(y, mo, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func pgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}
