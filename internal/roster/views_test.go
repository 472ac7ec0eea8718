package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/types"
)

func sample() []types.Student {
	return []types.Student{
		{ID: 1001, FirstName: "Ada", LastName: "Lovelace", Course: "Mathematics", Semester: 2, GPA: 3.5},
		{ID: 1002, FirstName: "alan", LastName: "Turing", Course: "Computer Science", Semester: 4, GPA: 0},
		{ID: 1003, FirstName: "Grace", LastName: "Hopper", Course: "computer science", Semester: 2, GPA: 3.5},
		{ID: 1004, FirstName: "Edsger", LastName: "Dijkstra", Course: "Physics", Semester: 6, GPA: 3.9},
		{ID: 1005, FirstName: "Barbara", LastName: "Liskov", Course: "Computer Engineering", Semester: 4, GPA: 2.5},
	}
}

func ids(students []types.Student) []int {
	out := make([]int, 0, len(students))
	for _, st := range students {
		out = append(out, st.ID)
	}
	return out
}

func TestSearchByName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"first name", "ADA", []int{1001}},
		{"last name", "hop", []int{1003}},
		{"across the space", "a l", []int{1001, 1005}},
		{"several", "er", []int{1003, 1004}},
		{"no match", "zuse", []int{}},
		{"empty matches all", "", []int{1001, 1002, 1003, 1004, 1005}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(SearchByName(sample(), tt.text)))
		})
	}
}

func TestSearchByCourse(t *testing.T) {
	assert.Equal(t, []int{1002, 1003, 1005}, ids(SearchByCourse(sample(), "COMPUTER")))
	assert.Equal(t, []int{1002, 1003}, ids(SearchByCourse(sample(), "science")))
	assert.Empty(t, SearchByCourse(sample(), "biology"))
}

func TestSearchBySemester(t *testing.T) {
	assert.Equal(t, []int{1001, 1003}, ids(SearchBySemester(sample(), 2)))
	assert.Empty(t, SearchBySemester(sample(), 8))
}

func TestSortByName(t *testing.T) {
	// ada lovelace, alan turing, barbara liskov, edsger dijkstra, grace hopper
	assert.Equal(t, []int{1001, 1002, 1005, 1004, 1003}, ids(SortByName(sample())))
}

func TestSortByGPA(t *testing.T) {
	got := SortByGPA(sample())
	assert.Equal(t, []int{1004, 1001, 1003, 1005, 1002}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].GPA, got[i].GPA)
	}
}

func TestSortByID(t *testing.T) {
	in := sample()
	in[0], in[4] = in[4], in[0]
	in[1], in[3] = in[3], in[1]

	got := SortByID(in)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].ID, got[i].ID)
	}
	assert.Len(t, got, len(in))
}

func TestViewsDoNotModifyInput(t *testing.T) {
	in := sample()
	before := ids(in)

	SortByName(in)
	SortByGPA(in)
	SortByID(in)
	SearchByName(in, "a")

	assert.Equal(t, before, ids(in))
}

func TestViewsOnEmpty(t *testing.T) {
	assert.NotNil(t, SortByID(nil))
	assert.Empty(t, SortByGPA(nil))
	assert.NotNil(t, SearchByCourse(nil, "x"))
}

func TestStoreViewsUseSnapshot(t *testing.T) {
	s := openStore(t, &memStorage{})
	a, err := s.Create(input("Zed", "Last", "z@example.com"))
	require.NoError(t, err)
	b, err := s.Create(input("Amy", "First", "a@example.com"))
	require.NoError(t, err)

	sorted := s.SortByName()
	assert.Equal(t, []int{b.ID, a.ID}, ids(sorted))

	// Mutating the store afterwards does not change a view already taken.
	require.NoError(t, s.Delete(a.ID))
	assert.Len(t, sorted, 2)
	assert.Equal(t, []int{b.ID}, ids(s.SortByID()))
	assert.Equal(t, []int{b.ID}, ids(s.SearchByName("amy")))
	assert.Equal(t, []int{b.ID}, ids(s.SearchByCourse("computer")))
	assert.Equal(t, []int{b.ID}, ids(s.SearchBySemester(3)))
	assert.Equal(t, []int{b.ID}, ids(s.SortByGPA()))
}
