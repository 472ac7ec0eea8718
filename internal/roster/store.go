// Package roster owns the in-memory collection of student records.
//
// A Store is built with Open, which loads the last snapshot exactly once,
// and torn down with Close, which writes a final one. Every successful
// Create, Update, Delete and subject change is followed by a synchronous
// Save of the whole roster.
//
// All mutating operations hold the store's write lock across the whole
// check → mutate → persist sequence, so the email uniqueness check cannot
// race with a concurrent insert. The check itself is a linear scan over the
// live records; rosters are small enough that a secondary index is not
// needed.
package roster

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

var (
	ErrNotFound       = errors.New("student not found")
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrPersistenceLoad wraps the backend error when the snapshot on disk
	// cannot be used. Only returned by Open in strict mode; otherwise logged.
	ErrPersistenceLoad = errors.New("cannot load roster snapshot")

	// ErrPersistenceWrite is logged when a save after a mutation fails. The
	// mutation itself is kept and reported as successful.
	ErrPersistenceWrite = errors.New("cannot save roster snapshot")
)

// Store is the keyed record collection plus its id allocator.
type Store struct {
	mu       sync.RWMutex
	students map[int]*types.Student
	nextID   int

	backend storage.Storage
	log     *slog.Logger
	now     func() time.Time
	strict  bool
}

// Option customises a Store built by Open.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures and mutations.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock replaces time.Now as the source of enrollment dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithStrictLoad makes Open fail on an unusable snapshot instead of
// discarding it and starting empty.
func WithStrictLoad(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

// Open builds a Store and loads its state from backend.
//
// A missing snapshot yields an empty roster whose first id is 1001. An
// unreadable or inconsistent snapshot is logged and also yields an empty
// roster and the backend is told to discard the file, unless
// WithStrictLoad(true) was given, in which case the error is returned and
// nothing on disk is touched.
func Open(backend storage.Storage, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()

	snap, err := backend.Load()
	switch {
	case err == nil:
		if err := s.restore(snap); err != nil {
			return s.loadFailed(err)
		}
		s.log.Info("roster loaded",
			slog.Int("students", len(s.students)),
			slog.Int("next_id", s.nextID))
	case errors.Is(err, storage.ErrNotExist):
		s.log.Info("no roster snapshot found, starting empty")
	default:
		return s.loadFailed(err)
	}

	return s, nil
}

func (s *Store) loadFailed(err error) (*Store, error) {
	err = fmt.Errorf("%w: %w", ErrPersistenceLoad, err)
	if s.strict {
		return nil, err
	}
	s.log.Error("discarding unreadable roster snapshot",
		slog.String("error", err.Error()))
	if resetErr := s.backend.Reset(); resetErr != nil {
		s.log.Error("failed to discard roster snapshot",
			slog.String("error", resetErr.Error()))
	}
	s.reset()
	return s, nil
}

func (s *Store) reset() {
	s.students = make(map[int]*types.Student)
	s.nextID = storage.FirstID
}

// restore installs a loaded snapshot after checking the invariants that the
// backend cannot see, such as email uniqueness.
func (s *Store) restore(snap storage.Snapshot) error {
	if err := storage.Check(snap); err != nil {
		return err
	}
	students := make(map[int]*types.Student, len(snap.Students))
	for _, st := range snap.Students {
		for _, other := range students {
			if other.EmailMatches(st.Email) {
				return fmt.Errorf("students %d and %d share email %q", other.ID, st.ID, st.Email)
			}
		}
		c := st.Clone()
		students[c.ID] = &c
	}
	s.students = students
	s.nextID = snap.NextID
	return nil
}

// Create inserts a new record and returns it with its assigned id.
func (s *Store) Create(in types.StudentInput) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(in.Email, 0) {
		return types.Student{}, fmt.Errorf("Create: %q: %w", in.Email, ErrDuplicateEmail)
	}

	st := &types.Student{
		ID:             s.nextID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		DateOfBirth:    types.Date(in.DateOfBirth),
		Address:        in.Address,
		Course:         in.Course,
		Semester:       in.Semester,
		GPA:            0,
		Subjects:       []string{},
		EnrollmentDate: types.Date(s.now()),
	}
	s.students[st.ID] = st
	s.nextID++

	s.log.Info("student created", slog.Int("id", st.ID))
	s.persist()
	return st.Clone(), nil
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id int) (types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return types.Student{}, fmt.Errorf("Get: id %d: %w", id, ErrNotFound)
	}
	return st.Clone(), nil
}

// Update overwrites the mutable fields of an existing record. The id, the
// enrollment date, the date of birth and the subject set are kept.
func (s *Store) Update(id int, in types.StudentInput) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok {
		return types.Student{}, fmt.Errorf("Update: id %d: %w", id, ErrNotFound)
	}
	if s.emailTaken(in.Email, id) {
		return types.Student{}, fmt.Errorf("Update: %q: %w", in.Email, ErrDuplicateEmail)
	}

	st.FirstName = in.FirstName
	st.LastName = in.LastName
	st.Email = in.Email
	st.PhoneNumber = in.PhoneNumber
	st.Address = in.Address
	st.Course = in.Course
	st.Semester = in.Semester
	st.GPA = in.GPA

	s.log.Info("student updated", slog.Int("id", id))
	s.persist()
	return st.Clone(), nil
}

// Delete removes a record for good. Its id is never handed out again.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return fmt.Errorf("Delete: id %d: %w", id, ErrNotFound)
	}
	delete(s.students, id)

	s.log.Info("student deleted", slog.Int("id", id))
	s.persist()
	return nil
}

// AddSubject adds name to the record's subject set. Adding a subject that is
// already there changes nothing.
func (s *Store) AddSubject(id int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok {
		return fmt.Errorf("AddSubject: id %d: %w", id, ErrNotFound)
	}
	if st.HasSubject(name) {
		return nil
	}
	st.Subjects = append(st.Subjects, name)

	s.persist()
	return nil
}

// RemoveSubject drops name from the record's subject set if present.
func (s *Store) RemoveSubject(id int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok {
		return fmt.Errorf("RemoveSubject: id %d: %w", id, ErrNotFound)
	}
	for i, sub := range st.Subjects {
		if sub == name {
			st.Subjects = append(st.Subjects[:i], st.Subjects[i+1:]...)
			s.persist()
			return nil
		}
	}
	return nil
}

// Count is the number of live records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students)
}

// NextID is the id the next successful Create will receive.
func (s *Store) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID
}

// Snapshot returns deep copies of every live record in ascending id order.
// The result is owned by the caller; later mutations of the store are not
// visible through it.
func (s *Store) Snapshot() []types.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked().Students
}

// Close writes a final snapshot and releases the backend. The save error,
// if any, is returned here since there is no mutation left to protect.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saveErr := s.backend.Save(s.snapshotLocked())
	if saveErr != nil {
		saveErr = fmt.Errorf("Close: %w: %w", ErrPersistenceWrite, saveErr)
	}
	return errors.Join(saveErr, s.backend.Close())
}

func (s *Store) snapshotLocked() storage.Snapshot {
	snap := storage.Snapshot{
		NextID:   s.nextID,
		Students: make([]types.Student, 0, len(s.students)),
	}
	for _, st := range s.students {
		snap.Students = append(snap.Students, st.Clone())
	}
	storage.SortByID(snap.Students)
	return snap
}

// emailTaken scans every live record except the one with id self.
func (s *Store) emailTaken(email string, self int) bool {
	for id, st := range s.students {
		if id != self && st.EmailMatches(email) {
			return true
		}
	}
	return false
}

// persist saves the current state. Must be called with the write lock held.
// A failure is logged and otherwise ignored: the in-memory change stands.
func (s *Store) persist() {
	if err := s.backend.Save(s.snapshotLocked()); err != nil {
		s.log.Error("failed to persist roster",
			slog.String("error", fmt.Errorf("%w: %w", ErrPersistenceWrite, err).Error()))
	}
}
