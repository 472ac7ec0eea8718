package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aanand-mishra/student-records/internal/roster"
	"github.com/aanand-mishra/student-records/internal/types"
)

// dateLayout is dd/MM/yyyy, used for both input and display.
const dateLayout = "02/01/2006"

func writeDetails(w io.Writer, st types.Student, now time.Time) {
	fmt.Fprintf(w, "Student ID: %d\n", st.ID)
	fmt.Fprintf(w, "Name: %s\n", st.FullName())
	fmt.Fprintf(w, "Email: %s\n", st.Email)
	fmt.Fprintf(w, "Phone: %s\n", st.PhoneNumber)
	fmt.Fprintf(w, "Date of Birth: %s (Age: %d)\n", st.DateOfBirth.Format(dateLayout), st.Age(now))
	fmt.Fprintf(w, "Address: %s\n", st.Address)
	fmt.Fprintf(w, "Course: %s\n", st.Course)
	fmt.Fprintf(w, "Semester: %d\n", st.Semester)
	fmt.Fprintf(w, "GPA: %.2f\n", st.GPA)
	fmt.Fprintf(w, "Subjects: [%s]\n", strings.Join(st.Subjects, ", "))
	fmt.Fprintf(w, "Enrollment Date: %s\n", st.EnrollmentDate.Format(dateLayout))
}

func writeTable(w io.Writer, students []types.Student) {
	fmt.Fprintln(w, strings.Repeat("=", 80))
	for _, st := range students {
		fmt.Fprintf(w, "ID: %-6d | Name: %-25s | Course: %-15s | Semester: %-2d | GPA: %.2f\n",
			st.ID, st.FullName(), st.Course, st.Semester, st.GPA)
	}
}

func writeSearchResults(w io.Writer, students []types.Student) {
	if len(students) == 0 {
		fmt.Fprintln(w, "No students found matching the search criteria.")
		return
	}
	fmt.Fprintf(w, "\nSearch Results (%d found):\n", len(students))
	fmt.Fprintln(w, strings.Repeat("=", 50))
	for _, st := range students {
		fmt.Fprintf(w, "ID: %d | Name: %s | Course: %s | Semester: %d\n",
			st.ID, st.FullName(), st.Course, st.Semester)
	}
}

func writeStats(w io.Writer, stats roster.Statistics) {
	if stats.Total == 0 {
		fmt.Fprintln(w, "No students in database.")
		return
	}
	fmt.Fprintln(w, "\n=== DATABASE STATISTICS ===")
	fmt.Fprintf(w, "Total Students: %d\n", stats.Total)

	fmt.Fprintln(w, "\nCourse Distribution:")
	for _, course := range stats.Courses() {
		fmt.Fprintf(w, "  %s: %d students\n", course, stats.ByCourse[course])
	}

	if stats.HasAverage() {
		fmt.Fprintf(w, "\nAverage GPA: %.2f\n", stats.AverageGPA)
	}
	fmt.Fprintf(w, "Next Student ID: %d\n", stats.NextID)
}
