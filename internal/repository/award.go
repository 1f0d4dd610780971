package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/minesweeper-rush/internal/match"
)

var ErrAlreadyReported = errors.New("match result already reported")

// AwardRepository stores match awards; it is the match reporter used when a
// database is configured.
type AwardRepository struct {
	q *Queries
}

func NewAwardRepository(db DBTX) *AwardRepository {
	return &AwardRepository{q: New(db)}
}

// Report stores the result and its awards in one transaction. A match can
// only be reported once.
func (r *AwardRepository) Report(ctx context.Context, result match.Result) error {
	tx, err := r.q.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"INSERT INTO match_result (match_id) VALUES (@matchID)",
		pgx.NamedArgs{"matchID": result.MatchID},
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return fmt.Errorf("%w: %s", ErrAlreadyReported, result.MatchID)
	}
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, p := range result.Placements {
		batch.Queue(
			`INSERT INTO award (match_id, player_index, identity, score, place, points)
			VALUES (@matchID, @playerIndex, @identity, @score, @place, @points)`,
			pgx.NamedArgs{
				"matchID":     result.MatchID,
				"playerIndex": p.PlayerIndex,
				"identity":    p.Identity,
				"score":       p.Score,
				"place":       p.Place,
				"points":      p.Points,
			},
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("unable to insert awards: %w", err)
	}
	return tx.Commit(ctx)
}

type Standing struct {
	Identity string `json:"identity"`
	Matches  int    `json:"matches"`
	Wins     int    `json:"wins"`
	Points   int    `json:"points"`
}

type LeaderboardFilter struct {
	Identity *string
	Since    *time.Time
}

func (f LeaderboardFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Identity != nil {
		clauses = append(clauses, "a.identity = @identity")
		args["identity"] = *f.Identity
	}
	if f.Since != nil {
		clauses = append(clauses, "m.finished_at >= @since")
		args["since"] = *f.Since
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *AwardRepository) Leaderboard(
	ctx context.Context, filter LeaderboardFilter, limit int,
) ([]Standing, error) {
	where, args := filter.WhereClause()
	args["limit"] = limit
	query := `
	SELECT
		a.identity,
		count(*) AS matches,
		count(*) FILTER (WHERE a.place = 1) AS wins,
		sum(a.points) AS points
	FROM award a
	JOIN match_result m ON m.match_id = a.match_id
	` + where + `
	GROUP BY a.identity
	ORDER BY points DESC, wins DESC, a.identity
	LIMIT @limit`
	rows, _ := r.q.db.Query(ctx, query, args)
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Standing])
}
