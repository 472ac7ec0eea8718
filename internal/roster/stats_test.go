package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/types"
)

func TestStats_AverageSkipsUngraded(t *testing.T) {
	students := []types.Student{
		{ID: 1001, Course: "Math", GPA: 0.0},
		{ID: 1002, Course: "Math", GPA: 3.5},
		{ID: 1003, Course: "Physics", GPA: 0.0},
		{ID: 1004, Course: "math", GPA: 2.5},
	}

	stats := Stats(students, 1005)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Graded)
	assert.True(t, stats.HasAverage())
	assert.InDelta(t, 3.0, stats.AverageGPA, 1e-9)
	assert.Equal(t, map[string]int{"Math": 2, "Physics": 1, "math": 1}, stats.ByCourse)
	assert.Equal(t, []string{"Math", "Physics", "math"}, stats.Courses())
	assert.Equal(t, 1005, stats.NextID)
}

func TestStats_NoGradedStudents(t *testing.T) {
	stats := Stats([]types.Student{{ID: 1001, Course: "Math"}}, 1002)

	assert.False(t, stats.HasAverage())
	assert.Zero(t, stats.AverageGPA)
}

func TestStats_Empty(t *testing.T) {
	stats := Stats(nil, 1001)

	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.ByCourse)
	assert.False(t, stats.HasAverage())
}

func TestStore_Stats(t *testing.T) {
	s := openStore(t, &memStorage{})

	for i, gpa := range []float64{0.0, 3.5, 0.0, 2.5} {
		in := input("S", "N", string(rune('a'+i))+"@example.com")
		st, err := s.Create(in)
		require.NoError(t, err)
		in.GPA = gpa
		_, err = s.Update(st.ID, in)
		require.NoError(t, err)
	}

	stats := s.Stats()
	assert.Equal(t, 4, stats.Total)
	assert.InDelta(t, 3.0, stats.AverageGPA, 1e-9)
	assert.Equal(t, map[string]int{"Computer Science": 4}, stats.ByCourse)
	assert.Equal(t, 1005, stats.NextID)
}
