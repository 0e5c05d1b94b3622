package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrGaveUp ends a session after too many invalid answers in a row.
var ErrGaveUp = errors.New("too many invalid answers")

var errInvalid = errors.New("invalid answer")

// complaints are shown one after the other while the answers stay invalid.
// %s is replaced by the first rejected answer.
var complaints = []string{
	"Hmm.. It seems that your answer is not valid..",
	"Do you want to break me? :o",
	"I am a machine, I have patience.",
	"What?? %s!? You must be kidding me!",
	"I just wanted to be your friend..",
	"Computer programs have feelings, you know?",
	":o You are about to kill me!",
}

func complaint(i int, answer string) string {
	if strings.Contains(complaints[i], "%s") {
		return fmt.Sprintf(complaints[i], answer)
	}
	return complaints[i]
}

// Session is a line-based dialogue over a reader and a writer.
type Session struct {
	in    *bufio.Scanner
	out   io.Writer
	warn  lipgloss.Style
	title lipgloss.Style
	box   lipgloss.Style
}

func NewSession(r io.Reader, w io.Writer) *Session {
	re := lipgloss.NewRenderer(w)
	return &Session{
		in:    bufio.NewScanner(r),
		out:   w,
		warn:  re.NewStyle().Foreground(lipgloss.Color("#ffaa00")),
		title: re.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		box:   re.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Session) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// pause waits for the user to press enter.
func (s *Session) pause() error {
	s.printf("Press enter to continue...")
	_, err := s.readLine()
	s.println()
	return err
}

// ask prints label and hands the answer to accept until it is taken. Every
// rejection gets the next complaint; once they run out the session gives up.
func (s *Session) ask(label string, accept func(string) error) error {
	s.printf("%s", label)
	answer, err := s.readLine()
	if err != nil {
		return err
	}
	first := answer
	for i := 0; accept(answer) != nil; i++ {
		if i == len(complaints) {
			s.println(s.warn.Render("Aaaaah! You killed me!"))
			return ErrGaveUp
		}
		s.println(s.warn.Render(complaint(i, first)))
		s.printf("Make your choice and press enter.\n")
		if answer, err = s.readLine(); err != nil {
			return err
		}
		s.println()
	}
	return nil
}

// Choose shows a numbered menu and returns the chosen option, counted from 1.
func (s *Session) Choose(question string, options ...string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("menu without options")
	}
	if question != "" {
		s.println(question)
	}
	last := len(options) - 1
	for i, o := range options[:last] {
		s.printf("    (%d) %s\n", i+1, o)
	}

	var choice int
	err := s.ask(fmt.Sprintf("    (%d) %s\n", last+1, options[last]), func(a string) error {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 || n > len(options) {
			return errInvalid
		}
		choice = n
		return nil
	})
	s.println()
	return choice, err
}

// Number reads a finite number that check accepts. A nil check takes any.
func (s *Session) Number(label string, check func(float64) bool) (float64, error) {
	var v float64
	err := s.ask(label, func(a string) error {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return errInvalid
		}
		if check != nil && !check(f) {
			return errInvalid
		}
		v = f
		return nil
	})
	return v, err
}

// Text reads a non-empty name. Surrounding quotes are dropped.
func (s *Session) Text(label string) (string, error) {
	var v string
	err := s.ask(label, func(a string) error {
		a = strings.TrimSpace(strings.Trim(a, `"'`))
		if a == "" {
			return errInvalid
		}
		v = a
		return nil
	})
	return v, err
}

func positive(v float64) bool { return v > 0 }

func eccentricity(v float64) bool { return v >= 0 && v < 1 }
