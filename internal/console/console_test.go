package console

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/roster"
	"github.com/aanand-mishra/student-records/internal/storage/yamlfile"
	"github.com/aanand-mishra/student-records/internal/types"
)

func newStore(t *testing.T) *roster.Store {
	t.Helper()
	backend := yamlfile.New(&config.Config{StoragePath: filepath.Join(t.TempDir(), "students.yaml")})
	store, err := roster.Open(backend, roster.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// run feeds the lines to a console and returns everything it printed.
func run(t *testing.T, store *roster.Store, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(store, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	c.now = func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, c.Run())
	return out.String()
}

func seed(t *testing.T, store *roster.Store, first, last, email, course string, semester int) types.Student {
	t.Helper()
	st, err := store.Create(types.StudentInput{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		DateOfBirth: time.Date(2003, time.April, 5, 0, 0, 0, 0, time.UTC),
		Course:      course,
		Semester:    semester,
	})
	require.NoError(t, err)
	return st
}

var addAda = []string{"1", "Ada", "Lovelace", "ada@example.com", "555-0100", "10/12/2001", "London", "Mathematics", "2"}

func TestAddAndView(t *testing.T) {
	store := newStore(t)

	script := append(append([]string{}, addAda...), "2", "1001", "0")
	out := run(t, store, script...)

	assert.Contains(t, out, "Student added successfully with ID: 1001")
	assert.Contains(t, out, "Name: Ada Lovelace")
	assert.Contains(t, out, "Date of Birth: 10/12/2001 (Age: 24)")
	assert.Contains(t, out, "GPA: 0.00")
	assert.Contains(t, out, "Thank you for using Student Management System!")
	assert.Equal(t, 1, store.Count())
}

func TestAdd_DuplicateEmail(t *testing.T) {
	store := newStore(t)
	seed(t, store, "Ada", "Lovelace", "ADA@example.com", "Mathematics", 2)

	out := run(t, store, addAda...)

	assert.Contains(t, out, "Error: email already exists")
	assert.Equal(t, 1, store.Count())
}

func TestAdd_ValidationFailure(t *testing.T) {
	store := newStore(t)

	out := run(t, store, "1", "", "Lovelace", "not-an-email", "", "10/12/2001", "", "Mathematics", "0")

	assert.Contains(t, out, "Error: field FirstName is required, field Email must be a valid email address, field Semester is required")
	assert.Equal(t, 0, store.Count())
	assert.Equal(t, 1001, store.NextID())
}

func TestAdd_BadDateThenCancel(t *testing.T) {
	store := newStore(t)

	out := run(t, store, "1", "Ada", "Lovelace", "ada@example.com", "", "2001-12-10", "cancel", "0")

	assert.Contains(t, out, "Please enter date in dd/MM/yyyy format.")
	assert.Contains(t, out, "Thank you")
	assert.Equal(t, 0, store.Count())
}

func TestUpdate_KeepsBlankFields(t *testing.T) {
	store := newStore(t)
	st := seed(t, store, "Ada", "Lovelace", "ada@example.com", "Mathematics", 2)

	// First name, last name kept; new email; phone, address, course kept;
	// semester "x" is invalid and kept; gpa set.
	out := run(t, store, "3", "1001", "", "", "ada@lovelace.org", "", "", "", "x", "3.5", "0")

	assert.Contains(t, out, "Invalid number, keeping current value.")
	assert.Contains(t, out, "Student updated successfully!")

	got, err := store.Get(st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "ada@lovelace.org", got.Email)
	assert.Equal(t, "Mathematics", got.Course)
	assert.Equal(t, 2, got.Semester)
	assert.Equal(t, 3.5, got.GPA)
	assert.Equal(t, st.EnrollmentDate, got.EnrollmentDate)
}

func TestUpdate_UnknownID(t *testing.T) {
	store := newStore(t)

	out := run(t, store, "3", "4242", "0")

	assert.Contains(t, out, "Error: student not found")
}

func TestDelete(t *testing.T) {
	store := newStore(t)
	seed(t, store, "Ada", "Lovelace", "ada@example.com", "Mathematics", 2)

	out := run(t, store, "4", "1001", "no", "0")
	assert.Contains(t, out, "Deletion cancelled.")
	assert.Equal(t, 1, store.Count())

	out = run(t, store, "4", "1001", "Y", "0")
	assert.Contains(t, out, "Student deleted successfully!")
	assert.Equal(t, 0, store.Count())
}

func TestSearchAndSort(t *testing.T) {
	store := newStore(t)
	seed(t, store, "Grace", "Hopper", "grace@example.com", "Computer Science", 4)
	seed(t, store, "Ada", "Lovelace", "ada@example.com", "Mathematics", 2)

	out := run(t, store,
		"5", "1", "hop",
		"5", "2", "math",
		"5", "3", "9",
		"7", "1",
		"0")

	assert.Contains(t, out, "Search Results (1 found):")
	assert.Contains(t, out, "ID: 1001 | Name: Grace Hopper | Course: Computer Science | Semester: 4")
	assert.Contains(t, out, "ID: 1002 | Name: Ada Lovelace | Course: Mathematics | Semester: 2")
	assert.Contains(t, out, "No students found matching the search criteria.")

	sorted := out[strings.Index(out, "Students sorted by Name:"):]
	assert.Less(t, strings.Index(sorted, "Ada Lovelace"), strings.Index(sorted, "Grace Hopper"))
}

func TestStatistics(t *testing.T) {
	store := newStore(t)

	out := run(t, store, "8", "0")
	assert.Contains(t, out, "No students in database.")

	a := seed(t, store, "Grace", "Hopper", "grace@example.com", "Computer Science", 4)
	seed(t, store, "Ada", "Lovelace", "ada@example.com", "Mathematics", 2)
	_, err := store.Update(a.ID, types.StudentInput{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com",
		Course: "Computer Science", Semester: 4, GPA: 3.8,
	})
	require.NoError(t, err)

	out = run(t, store, "8", "0")
	assert.Contains(t, out, "Total Students: 2")
	assert.Contains(t, out, "  Computer Science: 1 students")
	assert.Contains(t, out, "Average GPA: 3.80")
	assert.Contains(t, out, "Next Student ID: 1003")
}

func TestManageSubjects(t *testing.T) {
	store := newStore(t)
	st := seed(t, store, "Ada", "Lovelace", "ada@example.com", "Mathematics", 2)

	out := run(t, store, "9", "1001", "2", "0")
	assert.Contains(t, out, "No subjects to remove.")

	run(t, store,
		"9", "1001", "1", "Analysis",
		"9", "1001", "1", "Engines",
		"9", "1001", "1", "Analysis",
		"9", "1001", "2", "Analysis",
		"0")

	got, err := store.Get(st.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Engines"}, got.Subjects)
}

func TestExportJSON(t *testing.T) {
	store := newStore(t)
	seed(t, store, "Ada", "Lovelace", "ada@example.com", "Mathematics", 2)

	out := run(t, store, "10", "0")

	assert.Contains(t, out, `"email": "ada@example.com"`)
	assert.Contains(t, out, `"id": 1001`)
}

func TestRun_InputHandling(t *testing.T) {
	store := newStore(t)

	out := run(t, store, "abc", "42", "6")

	assert.Contains(t, out, "Please enter a valid number.")
	assert.Contains(t, out, "Invalid choice! Please try again.")
	assert.Contains(t, out, "No students in database.")
	assert.NotContains(t, out, "Thank you", "end of input exits without the farewell")
}
