package store

import (
	"context"
	"os"

	apperrors "github.com/rcliao/cyoa/internal/errors"
)

// Stats holds database statistics.
type Stats struct {
	DBPath          string           `json:"db_path"`
	DBSizeBytes     int64            `json:"db_size_bytes"`
	Adventures      int              `json:"adventures"`
	Sections        int              `json:"sections"`
	Choices         int              `json:"choices"`
	DanglingChoices int              `json:"dangling_choices"`
	Media           int              `json:"media"`
	MediaBytes      int64            `json:"media_bytes"`
	PerAdventure    []AdventureStats `json:"per_adventure"`
}

// AdventureStats holds per-adventure counts.
type AdventureStats struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Sections int    `json:"sections"`
	Choices  int    `json:"choices"`
	Media    int    `json:"media"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts := []struct {
		what  string
		query string
		dest  []any
	}{
		{"adventures", `SELECT COUNT(*) FROM adventures`, []any{&st.Adventures}},
		{"sections", `SELECT COUNT(*) FROM sections`, []any{&st.Sections}},
		{"choices", `SELECT COUNT(*) FROM choices`, []any{&st.Choices}},
		{"media", `SELECT COUNT(*), COALESCE(SUM(LENGTH(data)), 0) FROM media`, []any{&st.Media, &st.MediaBytes}},
		{"dangling choices", `
			SELECT COUNT(*) FROM choices c
			LEFT JOIN sections s ON s.adventure_id = c.adventure_id AND s.id = c.target_id
			WHERE s.id IS NULL`, []any{&st.DanglingChoices}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest...); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorage, "count "+c.what, err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.title,
		       (SELECT COUNT(*) FROM sections s WHERE s.adventure_id = a.id),
		       (SELECT COUNT(*) FROM choices c WHERE c.adventure_id = a.id),
		       (SELECT COUNT(*) FROM media m WHERE m.adventure_id = a.id)
		FROM adventures a ORDER BY a.id`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "query adventure stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var as AdventureStats
		if err := rows.Scan(&as.ID, &as.Title, &as.Sections, &as.Choices, &as.Media); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorage, "scan adventure stats", err)
		}
		st.PerAdventure = append(st.PerAdventure, as)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "read adventure stats", err)
	}

	return st, nil
}
