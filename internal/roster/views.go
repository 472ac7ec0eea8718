package roster

import (
	"cmp"
	"slices"
	"strings"

	"github.com/aanand-mishra/student-records/internal/types"
)

// The functions below are pure: they read the slice they are given and
// return a new one, never modifying the input. Search results keep the order
// of the input, which for Store.Snapshot is ascending id.

// SearchByName matches text, case-insensitively, as a substring of the full
// name, the first name or the last name.
func SearchByName(students []types.Student, text string) []types.Student {
	needle := strings.ToLower(text)
	return filter(students, func(st types.Student) bool {
		return strings.Contains(strings.ToLower(st.FullName()), needle) ||
			strings.Contains(strings.ToLower(st.FirstName), needle) ||
			strings.Contains(strings.ToLower(st.LastName), needle)
	})
}

// SearchByCourse matches text, case-insensitively, as a substring of the
// course.
func SearchByCourse(students []types.Student, text string) []types.Student {
	needle := strings.ToLower(text)
	return filter(students, func(st types.Student) bool {
		return strings.Contains(strings.ToLower(st.Course), needle)
	})
}

// SearchBySemester returns the students in exactly that semester.
func SearchBySemester(students []types.Student, semester int) []types.Student {
	return filter(students, func(st types.Student) bool {
		return st.Semester == semester
	})
}

// SortByName orders by full name, ignoring case. Equal names fall back to id.
func SortByName(students []types.Student) []types.Student {
	return sorted(students, func(a, b types.Student) int {
		return cmp.Or(
			strings.Compare(strings.ToLower(a.FullName()), strings.ToLower(b.FullName())),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

// SortByGPA orders by GPA, highest first. Equal GPAs are ordered by
// ascending id so the listing is stable between runs.
func SortByGPA(students []types.Student) []types.Student {
	return sorted(students, func(a, b types.Student) int {
		return cmp.Or(
			cmp.Compare(b.GPA, a.GPA),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

// SortByID orders by ascending id.
func SortByID(students []types.Student) []types.Student {
	return sorted(students, func(a, b types.Student) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

func filter(students []types.Student, keep func(types.Student) bool) []types.Student {
	out := make([]types.Student, 0)
	for _, st := range students {
		if keep(st) {
			out = append(out, st)
		}
	}
	return out
}

func sorted(students []types.Student, compare func(a, b types.Student) int) []types.Student {
	out := slices.Clone(students)
	if out == nil {
		out = make([]types.Student, 0)
	}
	slices.SortFunc(out, compare)
	return out
}

// Store shortcuts: each runs the view over a fresh Snapshot.

func (s *Store) SearchByName(text string) []types.Student {
	return SearchByName(s.Snapshot(), text)
}

func (s *Store) SearchByCourse(text string) []types.Student {
	return SearchByCourse(s.Snapshot(), text)
}

func (s *Store) SearchBySemester(semester int) []types.Student {
	return SearchBySemester(s.Snapshot(), semester)
}

func (s *Store) SortByName() []types.Student {
	return SortByName(s.Snapshot())
}

func (s *Store) SortByGPA() []types.Student {
	return SortByGPA(s.Snapshot())
}

func (s *Store) SortByID() []types.Student {
	return SortByID(s.Snapshot())
}
