package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	List(ctx context.Context, q Query) ([]*Booking, error)

	// UpdateStatus reads the booking under a row lock, asks decide for the next status
	// and persists it only if the status has not changed since the read.
	UpdateStatus(ctx context.Context, id int64, decide func(b *Booking) (Status, error)) (*Booking, error)

	// Last and Next return nil, nil when there is no matching booking.
	Last(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	Next(ctx context.Context, itemID int64, now time.Time) (*Booking, error)

	HasCompleted(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// selectView selects the booking with its item and booker joined in.
func selectView() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status", "b.created_at", "b.updated_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

// statePredicate is the SQL form of State.Includes.
func statePredicate(s State, now time.Time) squirrel.Sqlizer {
	switch s {
	case StateCurrent:
		return squirrel.And{
			squirrel.Lt{"b.start_time": now},
			squirrel.Gt{"b.end_time": now},
		}
	case StatePast:
		return squirrel.Lt{"b.end_time": now}
	case StateFuture:
		return squirrel.Gt{"b.start_time": now}
	case StateWaiting:
		return squirrel.Eq{"b.status": string(StatusWaiting)}
	case StateRejected:
		return squirrel.Eq{"b.status": []string{string(StatusRejected), string(StatusCanceled)}}
	default:
		return nil
	}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, string(b.Status)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ForeignKeyViolation:
				if pgErr.ConstraintName == "fk_bookings_booker" {
					return ErrUserNotFound
				}
				return ErrItemNotFound
			case pgerrcode.CheckViolation:
				return ErrInvalidTimeRange
			}
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := selectView().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, q Query) ([]*Booking, error) {
	query := selectView()

	switch {
	case q.BookerID != 0:
		query = query.Where(squirrel.Eq{"b.booker_id": q.BookerID})
	case len(q.ItemIDs) > 0:
		query = query.Where(squirrel.Eq{"b.item_id": q.ItemIDs})
	default:
		return nil, fmt.Errorf("list bookings: query has neither booker nor items")
	}

	if pred := statePredicate(q.State, q.Now); pred != nil {
		query = query.Where(pred)
	}

	query = query.OrderBy("b.start_time DESC", "b.id DESC")

	if q.Page.From > 0 {
		query = query.Offset(uint64(q.Page.From))
	}
	if q.Page.Size > 0 {
		query = query.Limit(uint64(q.Page.Size))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	bookings := make([]*Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, decide func(b *Booking) (Status, error)) (*Booking, error) {
	var updated *Booking

	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		// 1. Lock the booking row
		query, args, err := selectView().
			Where(squirrel.Eq{"b.id": id}).
			Suffix("FOR UPDATE OF b").
			ToSql()
		if err != nil {
			return fmt.Errorf("build lock booking query failed: %w", err)
		}

		b, err := scanBooking(tx.QueryRow(ctx, query, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock booking failed: %w", err)
		}

		// 2. Decide on the locked snapshot
		next, err := decide(b)
		if err != nil {
			return err
		}

		// 3. Compare-and-set on the status that was read
		psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		upd, args, err := psql.Update("public.bookings").
			Set("status", string(next)).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": id, "status": string(b.Status)}).
			Suffix("RETURNING updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build update booking status query failed: %w", err)
		}

		if err := tx.QueryRow(ctx, upd, args...).Scan(&b.UpdatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrDecisionConflict
			}
			return fmt.Errorf("update booking status failed: %w", err)
		}

		b.Status = next
		updated = b
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			(pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected) {
			return nil, ErrDecisionConflict
		}
		return nil, err
	}

	return updated, nil
}

func (r *pgxRepository) Last(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	query, args, err := selectView().
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.Lt{"b.end_time": now}).
		OrderBy("b.end_time DESC", "b.id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build last booking query failed: %w", err)
	}

	return r.queryOptional(ctx, query, args)
}

func (r *pgxRepository) Next(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	query, args, err := selectView().
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.Gt{"b.start_time": now}).
		OrderBy("b.start_time ASC", "b.id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build next booking query failed: %w", err)
	}

	return r.queryOptional(ctx, query, args)
}

func (r *pgxRepository) queryOptional(ctx context.Context, query string, args []any) (*Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) HasCompleted(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{
			"item_id":   itemID,
			"booker_id": bookerID,
			"status":    string(StatusApproved),
		}).
		Where(squirrel.Lt{"end_time": now})

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build completed booking query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check completed booking failed: %w", err)
	}
	return exists, nil
}
