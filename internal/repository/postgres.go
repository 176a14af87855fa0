package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (q Postgres) Record(ctx context.Context, score Score) error {
	_, err := q.db.Exec(
		ctx,
		`INSERT INTO score (
			session_id, rows, cols, mine_count, won, elapsed_ms, finished_at
		)
		VALUES (
			@session_id, @rows, @cols, @mine_count, @won, @elapsed_ms, @finished_at
		);`,
		pgx.NamedArgs{
			"session_id":  score.SessionID,
			"rows":        score.Rows,
			"cols":        score.Cols,
			"mine_count":  score.MineCount,
			"won":         score.Won,
			"elapsed_ms":  score.ElapsedMs,
			"finished_at": score.FinishedAt,
		},
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return ErrAlreadyRecorded
	}
	return err
}

func (f Filter) WhereClause() (string, pgx.NamedArgs) {
	clauses := []string{"won = true"}
	args := pgx.NamedArgs{"limit": f.limit()}
	if f.Params != nil {
		clauses = append(
			clauses,
			"rows = @rows",
			"cols = @cols",
			"mine_count = @mine_count",
		)
		args["rows"] = f.Params.Rows
		args["cols"] = f.Params.Cols
		args["mine_count"] = f.Params.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

func (q Postgres) Highscores(ctx context.Context, filter Filter) ([]Score, error) {
	whereClause, args := filter.WhereClause()
	query := `
	SELECT
		session_id,
		rows,
		cols,
		mine_count,
		won,
		elapsed_ms,
		finished_at
	FROM score
	WHERE ` + whereClause + `
	ORDER BY elapsed_ms, finished_at
	LIMIT @limit;`

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Score])
}
