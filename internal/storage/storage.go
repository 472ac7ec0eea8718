// Package storage defines the Storage interface — the contract that any
// snapshot backend must satisfy to persist the roster.
//
// The roster never talks to a file format directly. It hands a complete
// Snapshot to Save after every successful mutation and asks Load for one
// exactly once at startup. Switching formats means implementing this
// interface and changing one line in main.go.
package storage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aanand-mishra/student-records/internal/types"
)

// ErrNotExist is returned by Load when nothing has been persisted yet.
var ErrNotExist = errors.New("snapshot does not exist")

// FirstID is the counter value of an empty roster.
const FirstID = 1001

// Snapshot is the complete persisted state: every live record plus the id
// counter. Students are kept in ascending id order.
type Snapshot struct {
	NextID   int
	Students []types.Student
}

// Empty is the state of a roster that has never been written.
func Empty() Snapshot {
	return Snapshot{NextID: FirstID, Students: []types.Student{}}
}

// Storage is the persistence contract.
type Storage interface {
	// Load reads the last saved snapshot. Returns ErrNotExist (possibly
	// wrapped) if there is none, or another error if the file cannot be
	// decoded.
	Load() (Snapshot, error)

	// Save replaces whatever was persisted before with s.
	Save(s Snapshot) error

	// Reset discards whatever is persisted so the next Save starts from a
	// clean file. Called when Load returned a snapshot that cannot be used.
	Reset() error

	// Close releases any handle held by the backend.
	Close() error
}

// Check verifies that a decoded snapshot could have been produced by a
// roster: ids are unique and below the counter. Backends call it after
// decoding so an inconsistent file is reported as a load failure.
func Check(s Snapshot) error {
	seen := make(map[int]struct{}, len(s.Students))
	for _, st := range s.Students {
		if _, dup := seen[st.ID]; dup {
			return fmt.Errorf("duplicate student id %d", st.ID)
		}
		seen[st.ID] = struct{}{}
		if st.ID >= s.NextID {
			return fmt.Errorf("student id %d is not below next id %d", st.ID, s.NextID)
		}
	}
	if s.NextID < FirstID {
		return fmt.Errorf("next id %d is below %d", s.NextID, FirstID)
	}
	return nil
}

// SortByID orders students in place by ascending id.
func SortByID(students []types.Student) {
	sort.Slice(students, func(i, j int) bool {
		return students[i].ID < students[j].ID
	})
}
