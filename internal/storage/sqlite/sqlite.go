// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface, using sqlx on top of database/sql.
//
// WHY SQLite?
// ───────────
// SQLite keeps everything in a single file on disk, which is exactly what a
// roster snapshot needs: one file, written as a unit. Each Save runs inside
// one transaction, so a crash mid-write leaves the previous snapshot intact.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// Schema:
//
//	meta     — a single row holding the id counter
//	students — one row per live record, dates as YYYY-MM-DD text
//	subjects — one row per (student, subject); position keeps display order
const schema = `
	CREATE TABLE IF NOT EXISTS meta (
		id      INTEGER PRIMARY KEY CHECK (id = 1),
		next_id INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS students (
		id              INTEGER PRIMARY KEY,
		first_name      TEXT    NOT NULL,
		last_name       TEXT    NOT NULL,
		email           TEXT    NOT NULL,
		phone_number    TEXT    NOT NULL,
		date_of_birth   TEXT    NOT NULL,
		address         TEXT    NOT NULL,
		course          TEXT    NOT NULL,
		semester        INTEGER NOT NULL,
		gpa             REAL    NOT NULL,
		enrollment_date TEXT    NOT NULL
	);
	CREATE TABLE IF NOT EXISTS subjects (
		student_id INTEGER NOT NULL,
		position   INTEGER NOT NULL,
		name       TEXT    NOT NULL,
		PRIMARY KEY (student_id, name)
	);
`

// studentRow mirrors the students table. The db:"..." tags let sqlx map
// columns to fields by name instead of by position.
type studentRow struct {
	ID             int     `db:"id"`
	FirstName      string  `db:"first_name"`
	LastName       string  `db:"last_name"`
	Email          string  `db:"email"`
	PhoneNumber    string  `db:"phone_number"`
	DateOfBirth    string  `db:"date_of_birth"`
	Address        string  `db:"address"`
	Course         string  `db:"course"`
	Semester       int     `db:"semester"`
	GPA            float64 `db:"gpa"`
	EnrollmentDate string  `db:"enrollment_date"`
}

type subjectRow struct {
	StudentID int    `db:"student_id"`
	Position  int    `db:"position"`
	Name      string `db:"name"`
}

var _ storage.Storage = (*SQLite)(nil)

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	Db   *sqlx.DB
	path string
}

// New prepares a handle on the snapshot file at cfg.StoragePath.
//
// sqlx.Open does NOT touch the file yet. That matters: Load must be able to
// tell "no snapshot yet" apart from "empty database", so the file only comes
// into existence on the first Save.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sqlx.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	// A single connection keeps every statement on the same file handle.
	db.SetMaxOpenConns(1)

	return &SQLite{Db: db, path: cfg.StoragePath}, nil
}

// Load reads the counter, the students and their subjects.
func (s *SQLite) Load() (storage.Snapshot, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return storage.Snapshot{}, fmt.Errorf("Load: %s: %w", s.path, storage.ErrNotExist)
	}

	var nextID int
	if err := s.Db.Get(&nextID, "SELECT next_id FROM meta WHERE id = 1"); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Snapshot{}, errors.New("Load: meta: id counter is missing")
		}
		return storage.Snapshot{}, fmt.Errorf("Load: meta: %w", err)
	}

	var rows []studentRow
	if err := s.Db.Select(&rows, `
		SELECT id, first_name, last_name, email, phone_number, date_of_birth,
		       address, course, semester, gpa, enrollment_date
		FROM students ORDER BY id`); err != nil {
		return storage.Snapshot{}, fmt.Errorf("Load: students: %w", err)
	}

	var subs []subjectRow
	if err := s.Db.Select(&subs,
		"SELECT student_id, position, name FROM subjects ORDER BY student_id, position"); err != nil {
		return storage.Snapshot{}, fmt.Errorf("Load: subjects: %w", err)
	}

	bySubject := make(map[int][]string, len(rows))
	for _, sub := range subs {
		bySubject[sub.StudentID] = append(bySubject[sub.StudentID], sub.Name)
	}

	snap := storage.Snapshot{NextID: nextID, Students: make([]types.Student, 0, len(rows))}
	for _, row := range rows {
		st, err := row.toStudent()
		if err != nil {
			return storage.Snapshot{}, fmt.Errorf("Load: student %d: %w", row.ID, err)
		}
		if names, ok := bySubject[row.ID]; ok {
			st.Subjects = names
		}
		snap.Students = append(snap.Students, st)
	}

	if err := storage.Check(snap); err != nil {
		return storage.Snapshot{}, fmt.Errorf("Load: %w", err)
	}
	return snap, nil
}

// Save replaces every row with the contents of snap in one transaction.
func (s *SQLite) Save(snap storage.Snapshot) error {
	tx, err := s.Db.Beginx()
	if err != nil {
		return fmt.Errorf("Save: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("Save: create tables: %w", err)
	}
	for _, table := range []string{"subjects", "students"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("Save: clear %s: %w", table, err)
		}
	}

	insertStudent, err := tx.PrepareNamed(`
		INSERT INTO students (id, first_name, last_name, email, phone_number,
			date_of_birth, address, course, semester, gpa, enrollment_date)
		VALUES (:id, :first_name, :last_name, :email, :phone_number,
			:date_of_birth, :address, :course, :semester, :gpa, :enrollment_date)`)
	if err != nil {
		return fmt.Errorf("Save: prepare students: %w", err)
	}
	defer insertStudent.Close()

	insertSubject, err := tx.PrepareNamed(
		"INSERT INTO subjects (student_id, position, name) VALUES (:student_id, :position, :name)")
	if err != nil {
		return fmt.Errorf("Save: prepare subjects: %w", err)
	}
	defer insertSubject.Close()

	for _, st := range snap.Students {
		if _, err := insertStudent.Exec(fromStudent(st)); err != nil {
			return fmt.Errorf("Save: insert student %d: %w", st.ID, err)
		}
		for i, name := range st.Subjects {
			row := subjectRow{StudentID: st.ID, Position: i, Name: name}
			if _, err := insertSubject.Exec(row); err != nil {
				return fmt.Errorf("Save: insert subject %q of %d: %w", name, st.ID, err)
			}
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO meta (id, next_id) VALUES (1, ?)", snap.NextID); err != nil {
		return fmt.Errorf("Save: meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Save: commit: %w", err)
	}
	return nil
}

// Reset closes the connection, removes the snapshot file together with any
// journal SQLite left next to it, and opens a fresh handle. An unreadable
// file would otherwise make every later Save fail with "file is not a
// database".
func (s *SQLite) Reset() error {
	if err := s.Db.Close(); err != nil {
		return fmt.Errorf("Reset: close db: %w", err)
	}

	for _, name := range []string{s.path, s.path + "-journal", s.path + "-wal", s.path + "-shm"} {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("Reset: remove %s: %w", name, err)
		}
	}

	db, err := sqlx.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("Reset: open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	s.Db = db
	return nil
}

// Close closes the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

func fromStudent(st types.Student) studentRow {
	return studentRow{
		ID:             st.ID,
		FirstName:      st.FirstName,
		LastName:       st.LastName,
		Email:          st.Email,
		PhoneNumber:    st.PhoneNumber,
		DateOfBirth:    st.DateOfBirth.Format(types.DateLayout),
		Address:        st.Address,
		Course:         st.Course,
		Semester:       st.Semester,
		GPA:            st.GPA,
		EnrollmentDate: st.EnrollmentDate.Format(types.DateLayout),
	}
}

func (r studentRow) toStudent() (types.Student, error) {
	dob, err := time.Parse(types.DateLayout, r.DateOfBirth)
	if err != nil {
		return types.Student{}, fmt.Errorf("date_of_birth: %w", err)
	}
	enrolled, err := time.Parse(types.DateLayout, r.EnrollmentDate)
	if err != nil {
		return types.Student{}, fmt.Errorf("enrollment_date: %w", err)
	}
	return types.Student{
		ID:             r.ID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		PhoneNumber:    r.PhoneNumber,
		DateOfBirth:    dob,
		Address:        r.Address,
		Course:         r.Course,
		Semester:       r.Semester,
		GPA:            r.GPA,
		Subjects:       []string{},
		EnrollmentDate: enrolled,
	}, nil
}
