// Package store is the optional Postgres layer for cross-session data:
// the drill high-score board and finished-session summaries. The engine
// never touches it.
package store

import (
	"context"
	"embed"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close() { db.Pool.Close() }

func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

type HighScore struct {
	ID        string    `json:"id"`
	Player    string    `json:"player"`
	DrillKind string    `json:"drill_kind"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func (db *DB) InsertHighScore(ctx context.Context, player, drillKind string, score int64) (string, error) {
	id := NewID()
	_, err := db.Exec(ctx, `
        INSERT INTO high_scores (id, player, drill_kind, score)
        VALUES ($1, $2, $3, $4)
    `, id, player, drillKind, score)
	return id, err
}

func (db *DB) TopScores(ctx context.Context, drillKind string, limit int) ([]HighScore, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Query(ctx, `
        SELECT id, player, drill_kind, score, created_at
        FROM high_scores
        WHERE drill_kind = $1
        ORDER BY score DESC, created_at ASC
        LIMIT $2
    `, drillKind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HighScore
	for rows.Next() {
		var hs HighScore
		if err := rows.Scan(&hs.ID, &hs.Player, &hs.DrillKind, &hs.Score, &hs.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, hs)
	}
	return out, rows.Err()
}

type SessionSummary struct {
	ID          string `json:"id"`
	HandsPlayed int    `json:"hands_played"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Pushes      int    `json:"pushes"`
	Blackjacks  int    `json:"blackjacks"`
	NetCents    int64  `json:"net_cents"`
}

func (db *DB) SaveSessionSummary(ctx context.Context, s SessionSummary) error {
	_, err := db.Exec(ctx, `
        INSERT INTO session_summaries (id, hands_played, wins, losses, pushes, blackjacks, net_cents)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO UPDATE
          SET hands_played = EXCLUDED.hands_played,
              wins = EXCLUDED.wins,
              losses = EXCLUDED.losses,
              pushes = EXCLUDED.pushes,
              blackjacks = EXCLUDED.blackjacks,
              net_cents = EXCLUDED.net_cents
    `, s.ID, s.HandsPlayed, s.Wins, s.Losses, s.Pushes, s.Blackjacks, s.NetCents)
	return err
}
