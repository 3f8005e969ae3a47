// Package prompt asks the project questions on a line-oriented terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ba86work/create-next-shadcn-pwa/internal/pkgmanager"
	"github.com/ba86work/create-next-shadcn-pwa/internal/scaffold"
)

// Prompter reads answers from r and writes questions to w. An empty answer
// or end of input selects the default.
type Prompter struct {
	reader *bufio.Reader
	w      io.Writer
}

// New creates a Prompter.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(r), w: w}
}

// Text asks a free-form question.
func (p *Prompter) Text(question, def string) (string, error) {
	fmt.Fprintf(p.w, "%s (%s): ", question, def)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.w, "%s [%s]: ", question, hint)

	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid answer %q: answer y or n", line)
	}
}

// Select presents a numbered list and returns the selected index.
func (p *Prompter) Select(question string, items []string, def int) (int, error) {
	fmt.Fprintf(p.w, "\n%s\n", question)
	for i, item := range items {
		fmt.Fprintf(p.w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(p.w, "Enter number [1-%d] (%d): ", len(items), def+1)

	line, err := p.readLine()
	if err != nil {
		return 0, err
	}
	if line == "" {
		return def, nil
	}

	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(items) {
		return 0, fmt.Errorf("invalid selection %q: choose 1-%d", line, len(items))
	}
	return num - 1, nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// AskProject fills req from the user's answers, using req's values as the
// defaults. askName is false when the name came from the command line.
func (p *Prompter) AskProject(req scaffold.ProjectRequest, askName bool) (scaffold.ProjectRequest, error) {
	var err error

	if askName {
		if req.Name, err = p.Text("What is your project named?", req.Name); err != nil {
			return req, err
		}
		if err := scaffold.ValidateName(req.Name); err != nil {
			return req, err
		}
	}

	toggles := []struct {
		question string
		value    *bool
	}{
		{"Would you like to use TypeScript?", &req.TypeScript},
		{"Would you like to use ESLint?", &req.ESLint},
		{"Would you like to use Tailwind CSS?", &req.Tailwind},
		{"Would you like your code inside a src/ directory?", &req.SrcDir},
		{"Would you like to use App Router? (recommended)", &req.AppRouter},
		{"Would you like to use Turbopack for next dev?", &req.Turbo},
	}
	for _, q := range toggles {
		if *q.value, err = p.Confirm(q.question, *q.value); err != nil {
			return req, err
		}
	}

	custom, err := p.Confirm("Would you like to customize the import alias (@/* by default)?", false)
	if err != nil {
		return req, err
	}
	if custom {
		if req.ImportAlias, err = p.Text("What import alias would you like configured?", req.Alias()); err != nil {
			return req, err
		}
	}

	if req.Components, err = p.Confirm("Would you like to include shadcn/ui components?", req.Components); err != nil {
		return req, err
	}
	if req.PWA, err = p.Confirm("Would you like to add PWA support?", req.PWA); err != nil {
		return req, err
	}

	def := slices.Index(pkgmanager.Names, req.PackageManager)
	if def < 0 {
		def = 0
	}
	idx, err := p.Select("Which package manager would you like to use?", pkgmanager.Names, def)
	if err != nil {
		return req, err
	}
	req.PackageManager = pkgmanager.Names[idx]

	return req, nil
}

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
