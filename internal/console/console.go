// Package console is the interactive menu in front of the roster.
//
// It does all the prompting, parsing and validation, then calls the roster
// with ready-to-use values. Input ends with menu choice 0 or end of input.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records/internal/roster"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// errCancelled aborts the current action without ending the session.
var errCancelled = errors.New("cancelled")

// Console reads commands from in and writes everything to out.
type Console struct {
	store    *roster.Store
	in       *bufio.Scanner
	out      io.Writer
	validate *validator.Validate
	now      func() time.Time
}

// New returns a console over store.
func New(store *roster.Store, in io.Reader, out io.Writer) *Console {
	return &Console{
		store:    store,
		in:       bufio.NewScanner(in),
		out:      out,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Run shows the main menu until the user exits or input runs out.
func (c *Console) Run() error {
	fmt.Fprintln(c.out, strings.Repeat("=", 49))
	fmt.Fprintln(c.out, "    STUDENT RECORD MANAGEMENT SYSTEM")
	fmt.Fprintln(c.out, strings.Repeat("=", 49))

	actions := map[int]func() error{
		1:  c.addStudent,
		2:  c.viewStudent,
		3:  c.updateStudent,
		4:  c.deleteStudent,
		5:  c.searchStudents,
		6:  c.displayAll,
		7:  c.displaySorted,
		8:  c.displayStatistics,
		9:  c.manageSubjects,
		10: c.exportJSON,
	}

	for {
		c.menu()
		choice, err := c.readInt("Enter your choice: ")
		if err != nil {
			return endOfInput(err)
		}
		if choice == 0 {
			fmt.Fprintln(c.out, "Thank you for using Student Management System!")
			return nil
		}

		action, ok := actions[choice]
		if !ok {
			fmt.Fprintln(c.out, "Invalid choice! Please try again.")
			continue
		}
		if err := action(); err != nil && !errors.Is(err, errCancelled) {
			return endOfInput(err)
		}
	}
}

func (c *Console) menu() {
	fmt.Fprintln(c.out, "\n=== MAIN MENU ===")
	fmt.Fprintln(c.out, "1. Add New Student")
	fmt.Fprintln(c.out, "2. View Student Details")
	fmt.Fprintln(c.out, "3. Update Student Information")
	fmt.Fprintln(c.out, "4. Delete Student")
	fmt.Fprintln(c.out, "5. Search Students")
	fmt.Fprintln(c.out, "6. Display All Students")
	fmt.Fprintln(c.out, "7. Display Sorted Students")
	fmt.Fprintln(c.out, "8. View Statistics")
	fmt.Fprintln(c.out, "9. Manage Student Subjects")
	fmt.Fprintln(c.out, "10. Export Roster as JSON")
	fmt.Fprintln(c.out, "0. Exit")
	fmt.Fprintln(c.out, "==================")
}

func (c *Console) addStudent() error {
	fmt.Fprintln(c.out, "\n=== ADD NEW STUDENT ===")

	var in types.StudentInput
	var err error
	if in.FirstName, err = c.readLine("First Name: "); err != nil {
		return err
	}
	if in.LastName, err = c.readLine("Last Name: "); err != nil {
		return err
	}
	if in.Email, err = c.readLine("Email: "); err != nil {
		return err
	}
	if in.PhoneNumber, err = c.readLine("Phone Number: "); err != nil {
		return err
	}
	if in.DateOfBirth, err = c.readDate("Date of Birth (dd/MM/yyyy): "); err != nil {
		return err
	}
	if in.Address, err = c.readLine("Address: "); err != nil {
		return err
	}
	if in.Course, err = c.readLine("Course: "); err != nil {
		return err
	}
	if in.Semester, err = c.readInt("Semester: "); err != nil {
		return err
	}

	if !c.valid(in) {
		return nil
	}

	st, err := c.store.Create(in)
	if err != nil {
		c.fail(err)
		return nil
	}
	slog.Debug("student added from console", slog.Int("id", st.ID))
	c.reply(response.OK("Student added successfully with ID: %d", st.ID))
	return nil
}

func (c *Console) viewStudent() error {
	fmt.Fprintln(c.out, "\n=== VIEW STUDENT DETAILS ===")
	st, err := c.lookup("Enter Student ID: ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out)
	writeDetails(c.out, st, c.now())
	return nil
}

func (c *Console) updateStudent() error {
	fmt.Fprintln(c.out, "\n=== UPDATE STUDENT INFORMATION ===")
	st, err := c.lookup("Enter Student ID to update: ")
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Current Information:")
	writeDetails(c.out, st, c.now())
	fmt.Fprintln(c.out, "\nEnter new information (press Enter to keep current value):")

	in := types.StudentInput{DateOfBirth: st.DateOfBirth}
	if in.FirstName, err = c.readStringOr("First Name", st.FirstName); err != nil {
		return err
	}
	if in.LastName, err = c.readStringOr("Last Name", st.LastName); err != nil {
		return err
	}
	if in.Email, err = c.readStringOr("Email", st.Email); err != nil {
		return err
	}
	if in.PhoneNumber, err = c.readStringOr("Phone Number", st.PhoneNumber); err != nil {
		return err
	}
	if in.Address, err = c.readStringOr("Address", st.Address); err != nil {
		return err
	}
	if in.Course, err = c.readStringOr("Course", st.Course); err != nil {
		return err
	}
	if in.Semester, err = c.readIntOr("Semester", st.Semester); err != nil {
		return err
	}
	if in.GPA, err = c.readFloatOr("GPA", st.GPA); err != nil {
		return err
	}

	if !c.valid(in) {
		return nil
	}
	if _, err := c.store.Update(st.ID, in); err != nil {
		c.fail(err)
		return nil
	}
	c.reply(response.OK("Student updated successfully!"))
	return nil
}

func (c *Console) deleteStudent() error {
	fmt.Fprintln(c.out, "\n=== DELETE STUDENT ===")
	st, err := c.lookup("Enter Student ID to delete: ")
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Student to be deleted:")
	writeDetails(c.out, st, c.now())

	answer, err := c.readLine("Are you sure you want to delete this student? (yes/no): ")
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "yes", "y":
	default:
		fmt.Fprintln(c.out, "Deletion cancelled.")
		return nil
	}

	if err := c.store.Delete(st.ID); err != nil {
		c.fail(err)
		return nil
	}
	c.reply(response.OK("Student deleted successfully!"))
	return nil
}

func (c *Console) searchStudents() error {
	fmt.Fprintln(c.out, "\n=== SEARCH STUDENTS ===")
	fmt.Fprintln(c.out, "1. Search by Name")
	fmt.Fprintln(c.out, "2. Search by Course")
	fmt.Fprintln(c.out, "3. Search by Semester")

	choice, err := c.readInt("Enter search type: ")
	if err != nil {
		return err
	}

	var results []types.Student
	switch choice {
	case 1:
		name, err := c.readLine("Enter name to search: ")
		if err != nil {
			return err
		}
		results = c.store.SearchByName(name)
	case 2:
		course, err := c.readLine("Enter course to search: ")
		if err != nil {
			return err
		}
		results = c.store.SearchByCourse(course)
	case 3:
		semester, err := c.readInt("Enter semester to search: ")
		if err != nil {
			return err
		}
		results = c.store.SearchBySemester(semester)
	default:
		fmt.Fprintln(c.out, "Invalid search type!")
		return nil
	}

	writeSearchResults(c.out, results)
	return nil
}

func (c *Console) displayAll() error {
	fmt.Fprintln(c.out, "\n=== ALL STUDENTS ===")
	students := c.store.Snapshot()
	if len(students) == 0 {
		fmt.Fprintln(c.out, "No students in database.")
		return nil
	}
	fmt.Fprintf(c.out, "Total Students: %d\n", len(students))
	writeTable(c.out, students)
	return nil
}

func (c *Console) displaySorted() error {
	fmt.Fprintln(c.out, "\n=== DISPLAY SORTED STUDENTS ===")
	fmt.Fprintln(c.out, "1. Sort by Name")
	fmt.Fprintln(c.out, "2. Sort by GPA (Highest to Lowest)")
	fmt.Fprintln(c.out, "3. Sort by Student ID")

	choice, err := c.readInt("Enter sorting option: ")
	if err != nil {
		return err
	}

	var students []types.Student
	switch choice {
	case 1:
		students = c.store.SortByName()
		fmt.Fprintln(c.out, "\nStudents sorted by Name:")
	case 2:
		students = c.store.SortByGPA()
		fmt.Fprintln(c.out, "\nStudents sorted by GPA (Highest to Lowest):")
	case 3:
		students = c.store.SortByID()
		fmt.Fprintln(c.out, "\nStudents sorted by Student ID:")
	default:
		fmt.Fprintln(c.out, "Invalid sorting option!")
		return nil
	}

	if len(students) == 0 {
		fmt.Fprintln(c.out, "No students in database.")
		return nil
	}
	writeTable(c.out, students)
	return nil
}

func (c *Console) displayStatistics() error {
	writeStats(c.out, c.store.Stats())
	return nil
}

func (c *Console) manageSubjects() error {
	fmt.Fprintln(c.out, "\n=== MANAGE STUDENT SUBJECTS ===")
	st, err := c.lookup("Enter Student ID: ")
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Student: %s\n", st.FullName())
	fmt.Fprintf(c.out, "Current Subjects: [%s]\n", strings.Join(st.Subjects, ", "))
	fmt.Fprintln(c.out, "\n1. Add Subject")
	fmt.Fprintln(c.out, "2. Remove Subject")

	choice, err := c.readInt("Enter choice: ")
	if err != nil {
		return err
	}

	switch choice {
	case 1:
		name, err := c.readLine("Enter subject to add: ")
		if err != nil {
			return err
		}
		if name == "" {
			c.reply(response.GeneralError(errors.New("subject name is empty")))
			return nil
		}
		if err := c.store.AddSubject(st.ID, name); err != nil {
			c.fail(err)
			return nil
		}
		c.reply(response.OK("Subject added successfully!"))
	case 2:
		if len(st.Subjects) == 0 {
			fmt.Fprintln(c.out, "No subjects to remove.")
			return nil
		}
		name, err := c.readLine("Enter subject to remove: ")
		if err != nil {
			return err
		}
		if err := c.store.RemoveSubject(st.ID, name); err != nil {
			c.fail(err)
			return nil
		}
		c.reply(response.OK("Subject removed successfully!"))
	default:
		fmt.Fprintln(c.out, "Invalid choice!")
	}
	return nil
}

func (c *Console) exportJSON() error {
	if err := response.WriteJSON(c.out, c.store.SortByID()); err != nil {
		return fmt.Errorf("exportJSON: %w", err)
	}
	return nil
}

// lookup asks for an id and fetches the record. A missing record is reported
// to the user and turned into errCancelled.
func (c *Console) lookup(prompt string) (types.Student, error) {
	id, err := c.readInt(prompt)
	if err != nil {
		return types.Student{}, err
	}
	st, err := c.store.Get(id)
	if err != nil {
		c.fail(err)
		return types.Student{}, errCancelled
	}
	return st, nil
}

// valid runs the validate:"..." rules and reports every failure at once.
func (c *Console) valid(in types.StudentInput) bool {
	err := c.validate.Struct(in)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.reply(response.ValidationError(verrs))
	} else {
		c.reply(response.GeneralError(err))
	}
	return false
}

// fail reports a roster error using the plain message of its kind.
func (c *Console) fail(err error) {
	for _, kind := range []error{roster.ErrNotFound, roster.ErrDuplicateEmail} {
		if errors.Is(err, kind) {
			err = kind
			break
		}
	}
	c.reply(response.GeneralError(err))
}

func (c *Console) reply(r response.Response) {
	if err := response.Write(c.out, r); err != nil {
		slog.Error("cannot write to console", slog.String("error", err.Error()))
	}
}

// ─── input helpers ──────────────────────────────────────────────────────────

func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("readLine: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) readInt(prompt string) (int, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		fmt.Fprintln(c.out, "Please enter a valid number.")
	}
}

// readDate loops until a dd/MM/yyyy date is entered. Typing "cancel" after a
// bad date aborts the action.
func (c *Console) readDate(prompt string) (time.Time, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return time.Time{}, err
		}
		t, err := time.Parse(dateLayout, line)
		if err == nil {
			return t, nil
		}

		fmt.Fprintln(c.out, "Please enter date in dd/MM/yyyy format.")
		retry, err := c.readLine("Try again or type 'cancel' to cancel: ")
		if err != nil {
			return time.Time{}, err
		}
		if strings.EqualFold(retry, "cancel") {
			return time.Time{}, errCancelled
		}
	}
}

func (c *Console) readStringOr(label, current string) (string, error) {
	line, err := c.readLine(fmt.Sprintf("%s [%s]: ", label, current))
	if err != nil || line == "" {
		return current, err
	}
	return line, nil
}

func (c *Console) readIntOr(label string, current int) (int, error) {
	line, err := c.readLine(fmt.Sprintf("%s [%d]: ", label, current))
	if err != nil || line == "" {
		return current, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintln(c.out, "Invalid number, keeping current value.")
		return current, nil
	}
	return n, nil
}

func (c *Console) readFloatOr(label string, current float64) (float64, error) {
	line, err := c.readLine(fmt.Sprintf("%s [%.2f]: ", label, current))
	if err != nil || line == "" {
		return current, err
	}
	f, err := strconv.ParseFloat(line, 64)
	if err != nil {
		fmt.Fprintln(c.out, "Invalid number, keeping current value.")
		return current, nil
	}
	return f, nil
}

// endOfInput treats a closed input as a normal exit.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
