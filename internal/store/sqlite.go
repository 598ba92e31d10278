package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS adventures (
		id                 INTEGER PRIMARY KEY,
		title              TEXT NOT NULL,
		author             TEXT NOT NULL DEFAULT '',
		start_section_id   INTEGER NOT NULL DEFAULT 0,
		current_section_id INTEGER NOT NULL DEFAULT 0,
		random_enabled     INTEGER NOT NULL DEFAULT 0,
		online             INTEGER NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_adventures_title ON adventures(title);

	CREATE TABLE IF NOT EXISTS sections (
		adventure_id INTEGER NOT NULL REFERENCES adventures(id) ON DELETE CASCADE,
		id           INTEGER NOT NULL,
		seq          INTEGER NOT NULL,
		name         TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (adventure_id, id)
	);

	CREATE TABLE IF NOT EXISTS choices (
		adventure_id INTEGER NOT NULL REFERENCES adventures(id) ON DELETE CASCADE,
		section_id   INTEGER NOT NULL,
		seq          INTEGER NOT NULL,
		target_id    INTEGER NOT NULL,
		target_title TEXT NOT NULL DEFAULT '',
		decision     TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (adventure_id, section_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_choices_target ON choices(adventure_id, target_id);

	CREATE TABLE IF NOT EXISTS media (
		adventure_id INTEGER NOT NULL REFERENCES adventures(id) ON DELETE CASCADE,
		id           TEXT NOT NULL,
		section_id   INTEGER NOT NULL,
		seq          INTEGER NOT NULL,
		kind         TEXT NOT NULL,
		mime_type    TEXT,
		caption      TEXT,
		data         BLOB,
		PRIMARY KEY (adventure_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_media_section ON media(adventure_id, section_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the stored copy of adv. Media without an id get a ULID,
// written back into adv.
func (s *SQLiteStore) Save(ctx context.Context, adv *model.Adventure) error {
	if adv.ID <= 0 {
		return apperrors.Newf(apperrors.CodeInvalidArgument, "adventure id must be positive, got %d", adv.ID)
	}
	if err := adv.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid adventure", err)
	}

	now := time.Now().UTC()
	if adv.CreatedAt.IsZero() {
		adv.CreatedAt = now
	}
	if adv.UpdatedAt.IsZero() {
		adv.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "begin save", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO adventures (id, title, author, start_section_id, current_section_id, random_enabled, online, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   author = excluded.author,
		   start_section_id = excluded.start_section_id,
		   current_section_id = excluded.current_section_id,
		   random_enabled = excluded.random_enabled,
		   online = excluded.online,
		   updated_at = excluded.updated_at`,
		adv.ID, adv.Title, adv.Author, adv.StartSectionID, adv.CurrentSectionID,
		adv.RandomEnabled, adv.Online,
		adv.CreatedAt.Format(time.RFC3339), adv.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "upsert adventure", err)
	}

	for _, table := range []string{"sections", "choices", "media"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE adventure_id = ?`, adv.ID); err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, "clear "+table, err)
		}
	}

	for i, sec := range adv.Sections {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sections (adventure_id, id, seq, name) VALUES (?, ?, ?, ?)`,
			adv.ID, sec.ID, i, sec.Name)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, "insert section", err)
		}
		for j, c := range sec.Choices {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO choices (adventure_id, section_id, seq, target_id, target_title, decision)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				adv.ID, sec.ID, j, c.Target.ID, c.Target.Title, c.Decision)
			if err != nil {
				return apperrors.Wrap(apperrors.CodeStorage, "insert choice", err)
			}
		}
		for j := range sec.Media {
			m := &sec.Media[j]
			if m.ID == "" {
				m.ID = s.newID()
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO media (id, adventure_id, section_id, seq, kind, mime_type, caption, data)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				m.ID, adv.ID, sec.ID, j, m.Kind, m.MimeType, m.Caption, m.Data)
			if err != nil {
				return apperrors.Wrap(apperrors.CodeStorage, "insert media", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "commit save", err)
	}
	return nil
}

// LoadAll reads every adventure ordered by id, with sections, choices and
// media in their stored order.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]*model.Adventure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author, start_section_id, current_section_id, random_enabled, online, created_at, updated_at
		 FROM adventures ORDER BY id`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "query adventures", err)
	}
	defer rows.Close()

	var advs []*model.Adventure
	byID := map[int]*model.Adventure{}
	for rows.Next() {
		a, err := scanAdventure(rows)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorage, "scan adventure", err)
		}
		advs = append(advs, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "read adventures", err)
	}

	sections, err := s.loadSections(ctx, byID)
	if err != nil {
		return nil, err
	}
	if err := s.loadChoices(ctx, sections); err != nil {
		return nil, err
	}
	if err := s.loadMedia(ctx, sections); err != nil {
		return nil, err
	}
	return advs, nil
}

type sectionKey struct {
	adventureID int
	sectionID   int
}

func (s *SQLiteStore) loadSections(ctx context.Context, byID map[int]*model.Adventure) (map[sectionKey]*model.Section, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT adventure_id, id, name FROM sections ORDER BY adventure_id, seq`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "query sections", err)
	}
	defer rows.Close()

	out := map[sectionKey]*model.Section{}
	for rows.Next() {
		var advID int
		sec := &model.Section{}
		if err := rows.Scan(&advID, &sec.ID, &sec.Name); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorage, "scan section", err)
		}
		a, ok := byID[advID]
		if !ok {
			continue
		}
		a.Sections = append(a.Sections, sec)
		out[sectionKey{advID, sec.ID}] = sec
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadChoices(ctx context.Context, sections map[sectionKey]*model.Section) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT adventure_id, section_id, target_id, target_title, decision
		 FROM choices ORDER BY adventure_id, section_id, seq`)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "query choices", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key sectionKey
		var c model.Choice
		if err := rows.Scan(&key.adventureID, &key.sectionID, &c.Target.ID, &c.Target.Title, &c.Decision); err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, "scan choice", err)
		}
		if sec, ok := sections[key]; ok {
			sec.Choices = append(sec.Choices, c)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) loadMedia(ctx context.Context, sections map[sectionKey]*model.Section) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, adventure_id, section_id, kind, mime_type, caption, data
		 FROM media ORDER BY adventure_id, section_id, seq`)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "query media", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key sectionKey
		var m model.Media
		var mime, caption sql.NullString
		if err := rows.Scan(&m.ID, &key.adventureID, &key.sectionID, &m.Kind, &mime, &caption, &m.Data); err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, "scan media", err)
		}
		m.MimeType = mime.String
		m.Caption = caption.String
		if sec, ok := sections[key]; ok {
			sec.Media = append(sec.Media, m)
		}
	}
	return rows.Err()
}

// Delete removes an adventure; sections, choices and media cascade.
func (s *SQLiteStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM adventures WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "delete adventure", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "delete adventure", err)
	}
	if n == 0 {
		return apperrors.NotFound("adventure", id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAdventure(row scanner) (*model.Adventure, error) {
	a := &model.Adventure{}
	var createdAt, updatedAt string

	err := row.Scan(
		&a.ID, &a.Title, &a.Author, &a.StartSectionID, &a.CurrentSectionID,
		&a.RandomEnabled, &a.Online, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return a, nil
}
