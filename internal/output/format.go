// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"plannest/internal/service"
)

const (
	// SectionSeparator is the separator line around section headers.
	SectionSeparator = "------------"

	// CompletedHeader titles the completed section.
	CompletedHeader = "Completed"
)

// FormatTask formats a task as a numbered title line plus an indented
// description line.
// Format: "{N:>4}  [ ] {TITLE}\n        {DESCRIPTION}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s\n", num, mark, normalizeLine(task.Title, "(untitled)"))
	if desc := normalizeLine(task.Description, ""); desc != "" {
		fmt.Fprintf(w, "          %s\n", desc)
	}
}

// FormatSectionHeader formats a section header.
func FormatSectionHeader(w io.Writer, title string) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, SectionSeparator)
}

// FormatTaskList prints pending tasks, then a completed section if any.
// Numbers run across both sections starting at 1.
func FormatTaskList(w io.Writer, pending, completed []service.Task) {
	num := 1
	for _, task := range pending {
		FormatTask(w, num, task)
		num++
	}
	if len(completed) == 0 {
		return
	}
	FormatSectionHeader(w, CompletedHeader)
	for _, task := range completed {
		FormatTask(w, num, task)
		num++
	}
}

// FormatUser formats the signed-in user.
func FormatUser(w io.Writer, user service.User) {
	if user.Email == "" {
		fmt.Fprintln(w, user.Name)
		return
	}
	fmt.Fprintf(w, "%s <%s>\n", user.Name, user.Email)
}

// normalizeLine flattens newlines and substitutes empty for blank input.
func normalizeLine(s, empty string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.TrimSpace(s) == "" {
		return empty
	}
	return s
}
