package roster

import (
	"slices"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Statistics summarises a roster.
type Statistics struct {
	Total int

	// ByCourse counts students per course string, exactly as entered.
	ByCourse map[string]int

	// Graded is how many students have a GPA above zero; AverageGPA is
	// their mean. When Graded is 0 there is no average and AverageGPA is 0.
	Graded     int
	AverageGPA float64

	NextID int
}

// HasAverage reports whether at least one student is graded.
func (st Statistics) HasAverage() bool {
	return st.Graded > 0
}

// Courses returns the course names in ascending order.
func (st Statistics) Courses() []string {
	names := make([]string, 0, len(st.ByCourse))
	for name := range st.ByCourse {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Stats aggregates students. Ungraded students (GPA 0) count towards the
// total and their course but not towards the average.
func Stats(students []types.Student, nextID int) Statistics {
	out := Statistics{
		Total:    len(students),
		ByCourse: make(map[string]int),
		NextID:   nextID,
	}

	var sum float64
	for _, s := range students {
		out.ByCourse[s.Course]++
		if s.Graded() {
			sum += s.GPA
			out.Graded++
		}
	}
	if out.Graded > 0 {
		out.AverageGPA = sum / float64(out.Graded)
	}
	return out
}

// Stats aggregates the current contents of the store.
func (s *Store) Stats() Statistics {
	s.mu.RLock()
	snap := s.snapshotLocked()
	s.mu.RUnlock()
	return Stats(snap.Students, snap.NextID)
}
