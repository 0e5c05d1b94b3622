package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
)

func script(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestChooseAcceptsValidAnswer(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(script("2"), &out)

	n, err := s.Choose("Pick one", "a", "b", "c")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("choice = %d, want 2", n)
	}
	if !strings.Contains(out.String(), "    (3) c\n") {
		t.Errorf("menu not printed:\n%s", out.String())
	}
}

func TestChooseEscalates(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(script("x", "7", "0", "1"), &out)

	n, err := s.Choose("", "Yes", "No")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("choice = %d, want 1", n)
	}
	got := out.String()
	for _, want := range complaints[:3] {
		if !strings.Contains(got, want) {
			t.Errorf("missing complaint %q", want)
		}
	}
	if strings.Contains(got, "You must be kidding me") {
		t.Error("fourth complaint shown too early")
	}
	if strings.Count(got, "Make your choice and press enter.") != 3 {
		t.Errorf("expected three re-asks:\n%s", got)
	}
}

func TestChooseGivesUp(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(script("x", "y", "y", "y", "y", "y", "y", "y", "1"), &out)

	_, err := s.Choose("", "Yes", "No")
	if !errors.Is(err, ErrGaveUp) {
		t.Fatalf("err = %v, want ErrGaveUp", err)
	}
	got := out.String()
	if !strings.Contains(got, "What?? x!? You must be kidding me!") {
		t.Error("first answer not quoted")
	}
	if !strings.Contains(got, ":o You are about to kill me!") || !strings.Contains(got, "Aaaaah! You killed me!") {
		t.Errorf("missing last words:\n%s", got)
	}
}

func TestEndOfInput(t *testing.T) {
	s := NewSession(strings.NewReader(""), io.Discard)
	if _, err := s.Choose("", "Yes", "No"); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestNumberAndText(t *testing.T) {
	s := NewSession(script("-1", "abc", "2.5e3", `"Halley"`), io.Discard)

	v, err := s.Number("mass : ", positive)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2500 {
		t.Errorf("number = %g, want 2500", v)
	}

	name, err := s.Text("name : ")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Halley" {
		t.Errorf("name = %q", name)
	}
}

func TestRunPreset(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(script("", "1", "1", "2", "2"), &out)

	var got []Request
	err := s.Run(context.Background(), func(_ context.Context, r Request) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("handled %d requests, want 1", len(got))
	}
	r := got[0]
	if r.Scenario.Names[2] != "Betelgeuse" || r.Display != DisplayFinal || r.Save {
		t.Errorf("request = %+v", r)
	}
	if !strings.Contains(out.String(), "Comet 67P enters the Earth-Moon system!") {
		t.Error("preset menu not shown")
	}
	if !strings.HasSuffix(strings.TrimSpace(out.String()), goodbye) {
		t.Error("missing goodbye")
	}
}

func TestRunCustom(t *testing.T) {
	var out bytes.Buffer
	in := script(
		"",  // welcome
		"2", // own parameters
		"",  // help
		"Sun", "Earth",
		"333000", "1",
		"0", "1",
		`"Rock"`, "1",
		"0", "0", // on the Sun
		"1", "0", // on the Earth
		"3", "2",
		"0", "1",
		"5",
		"2", "1", // final trajectories, saved
		"1", "8", "7", // again, change duration
		"1", // animation
		"2", // stop
	)
	s := NewSession(in, &out)

	var got []Request
	err := s.Run(context.Background(), func(_ context.Context, r Request) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("%v\n%s", err, out.String())
	}
	if len(got) != 2 {
		t.Fatalf("handled %d requests, want 2", len(got))
	}

	first := got[0].Scenario
	if strings.Join(first.Names, ",") != "Sun,Earth,Rock" {
		t.Errorf("names = %v", first.Names)
	}
	if first.Third != (config.ThirdBody{X: 3, Y: 2, VX: 0, VY: 1}) {
		t.Errorf("third body = %+v", first.Third)
	}
	if err := first.Validate(); err != nil {
		t.Errorf("entered scenario is invalid: %v", err)
	}
	if !got[0].Save || got[0].Display != DisplayFinal {
		t.Errorf("first request = %+v", got[0])
	}
	if got[1].Scenario.Duration != 7 || first.Duration != 5 || got[1].Display != DisplayAnimation {
		t.Errorf("second request = %+v", got[1])
	}

	text := out.String()
	for _, want := range []string{
		"Oops! Sun is already here.. Choose a new position :",
		"Oops! Earth is already here.. Choose a new position :",
		"(5) distance Sun-Earth",
		"Typical masses",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunCustomReportsBadParameters(t *testing.T) {
	var out bytes.Buffer
	in := script("", "2", "",
		"A", "B", "1", "1", "0.5", "2", "C", "1", "5", "5", "0", "0", "1",
		"2", "2", // final, not saved
		"2", // stop
	)
	s := NewSession(in, &out)

	err := s.Run(context.Background(), func(context.Context, Request) error {
		return &dynamo.SimulationError{Step: 3, Wrapped: dynamo.ErrSingularity}
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "These parameters cannot be simulated") {
		t.Errorf("failure not reported:\n%s", out.String())
	}
}

func TestRunPresetPropagatesErrors(t *testing.T) {
	s := NewSession(script("", "1", "3", "1"), io.Discard)
	boom := errors.New("boom")

	err := s.Run(context.Background(), func(_ context.Context, r Request) error {
		if r.Scenario.Names[2] != "Comet 67P" {
			return fmt.Errorf("unexpected scenario %v", r.Scenario.Names)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestAskChangeKeepsThirdBodyClear(t *testing.T) {
	sc := config.DefaultScenario()
	sc.Third = config.ThirdBody{X: 2, Y: 0}

	// Moving the Earth out to 2 AU puts it on the visitor.
	s := NewSession(script("5", "2", "4", "4"), io.Discard)
	if err := s.AskChange(sc); err != nil {
		t.Fatal(err)
	}
	if sc.Separation != 2 || sc.Third.X != 4 || sc.Third.Y != 4 {
		t.Errorf("scenario = %+v", sc)
	}
}
