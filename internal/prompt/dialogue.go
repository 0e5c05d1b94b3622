package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
)

type Mode int

const (
	ModePresets Mode = iota + 1
	ModeCustom
)

type Display int

const (
	DisplayAnimation Display = iota + 1
	DisplayFinal
)

const banner = `*******************************************************
*                                                     *
*           Welcome to Cosmic Ballet ! =)             *
*                                                     *
*******************************************************`

const help = `Courageous choice :)
Here are some details to help you...

1. Units :
  - Distances --> in AU
  - Masses    --> in Earth masses
  - Time      --> in years
  - Velocity  --> in AU/year

2. Typical distances :
  - distance Earth-Sun :   1 AU
  - distance Earth-Moon :  0.002 AU

3. Typical masses :
  - Earth-like planet :    1 to 100 Me
  - Jupiter-like planet :  100 to 10000 Me
  - Sun :                  3.33e5 Me
  - Super-giant star :     2e6 to 5e6 Me
  - Red dwarf star :       2e4 to 2e5 Me
  - Moon :                 0.01 Me
  - Halley's Comet :       5e-11 Me

4. Suggestions :
  - Try first a short simulation (~1-10 years).
    If you see that the trajectories converge,
    then use a bigger value to see what happens!
  - To begin, just look at the final trajectories.
    Change the parameters according to the result
    and once you are happy, look at the whole
    animation :)
  - Don't forget that you can save the plots !`

const goodbye = "We had fun!! See you soon!"

func (s *Session) Welcome() error {
	s.println(s.title.Render(banner))
	s.println()
	s.println("Cosmic Ballet shows the trajectories and interactions between three")
	s.println("cosmic bodies, two of them initially orbiting around each other.")
	s.println()
	if err := s.pause(); err != nil {
		return err
	}
	s.println("Great! Now let's have fun!")
	return nil
}

func (s *Session) AskMode() (Mode, error) {
	n, err := s.Choose("To begin, please choose between the following options :",
		"See pre-registered trajectories",
		"Enter you own initial parameters",
	)
	return Mode(n), err
}

func (s *Session) AskPreset() (config.Preset, error) {
	presets := config.Presets()
	options := make([]string, len(presets))
	for i, p := range presets {
		options[i] = p.Description()
	}
	n, err := s.Choose("I prepared some interesting scenarios for you... Make your choice!", options...)
	if err != nil {
		return config.Custom, err
	}
	return presets[n-1], nil
}

// ShowHelp prints units and typical values before custom entry.
func (s *Session) ShowHelp() error {
	s.println(s.box.Render(help))
	s.println()
	s.println("Now, it's your turn!! :)")
	return s.pause()
}

// AskCustom reads a complete scenario. Step policy and integrator are the
// defaults.
func (s *Session) AskCustom() (*config.Scenario, error) {
	sc := config.DefaultScenario()
	sc.Names = make([]string, dynamo.NumBodies)
	sc.Masses = make([]float64, dynamo.NumBodies)

	var err error
	s.println("First, we consider two bodies orbiting around each other")
	if sc.Names[0], err = s.Text("   Name of the first one : "); err != nil {
		return nil, err
	}
	if sc.Names[1], err = s.Text("   Name of the second one : "); err != nil {
		return nil, err
	}
	if sc.Masses[0], err = s.Number("   mass of the first one : ", positive); err != nil {
		return nil, err
	}
	if sc.Masses[1], err = s.Number("   mass of the second one : ", positive); err != nil {
		return nil, err
	}
	if sc.Eccentricity, err = s.Number("   eccentricity of the orbit : ", eccentricity); err != nil {
		return nil, err
	}
	label := "   semi-major axis : "
	if sc.Eccentricity == 0 {
		label = "   distance between them : "
	}
	if sc.Separation, err = s.Number(label, positive); err != nil {
		return nil, err
	}

	s.println()
	s.println("A third body wants to be part of the fun!")
	if sc.Names[2], err = s.Text("   Name of this little guy : "); err != nil {
		return nil, err
	}
	if sc.Masses[2], err = s.Number("   mass : ", positive); err != nil {
		return nil, err
	}
	if err := s.askPosition(sc, "   "); err != nil {
		return nil, err
	}
	if err := s.askVelocity(sc, "   "); err != nil {
		return nil, err
	}
	if sc.Duration, err = s.Number("   Period covered by the simulation : ", positive); err != nil {
		return nil, err
	}
	s.println()
	return sc, nil
}

// askPosition reads the third body's position until it is clear of the pair.
func (s *Session) askPosition(sc *config.Scenario, indent string) error {
	var err error
	if sc.Third.X, err = s.Number(indent+"initial position on the x-axis : ", nil); err != nil {
		return err
	}
	if sc.Third.Y, err = s.Number(indent+"initial position on the y-axis : ", nil); err != nil {
		return err
	}
	return s.clearPosition(sc)
}

// clearPosition re-asks the position while the third body sits on top of
// one of the pair.
func (s *Session) clearPosition(sc *config.Scenario) error {
	for sc.CheckThirdPosition() != nil {
		s.println(s.warn.Render(fmt.Sprintf("   Oops! %s is already here.. Choose a new position :", occupant(sc))))
		var err error
		if sc.Third.X, err = s.Number("      initial position on the x-axis : ", nil); err != nil {
			return err
		}
		if sc.Third.Y, err = s.Number("      initial position on the y-axis : ", nil); err != nil {
			return err
		}
	}
	return nil
}

func occupant(sc *config.Scenario) string {
	p1, _ := sc.Binary().Positions()
	if sc.Third.X == p1.X && sc.Third.Y == p1.Y {
		return sc.Names[0]
	}
	return sc.Names[1]
}

func (s *Session) askVelocity(sc *config.Scenario, indent string) error {
	var err error
	if sc.Third.VX, err = s.Number(indent+"initial velocity on the x-axis : ", nil); err != nil {
		return err
	}
	sc.Third.VY, err = s.Number(indent+"initial velocity on the y-axis : ", nil)
	return err
}

func (s *Session) AskDisplay() (Display, error) {
	n, err := s.Choose("How would you like to display the result?",
		"See the animation",
		"See the final trajectories only",
	)
	return Display(n), err
}

func (s *Session) AskSave() (bool, error) {
	n, err := s.Choose("Do you want to save the graph?\nIf yes, it will be saved in your current working directory.",
		"Yes",
		"No",
	)
	return n == 1, err
}

func (s *Session) AskAgain() (bool, error) {
	n, err := s.Choose("Do you want to test new parameters?", "Yes", "No")
	return n == 1, err
}

// AskChange lets the user edit one parameter of sc in place.
func (s *Session) AskChange(sc *config.Scenario) error {
	pair := "semi-major axis"
	if sc.Eccentricity == 0 {
		pair = fmt.Sprintf("distance %s-%s", sc.Names[0], sc.Names[1])
	}
	n, err := s.Choose("What parameter do you want to change?",
		"mass of "+sc.Names[0],
		"mass of "+sc.Names[1],
		"mass of "+sc.Names[2],
		"eccentricity of the orbit",
		pair,
		"initial position of "+sc.Names[2],
		"initial velocity of "+sc.Names[2],
		"duration of the simulation",
	)
	if err != nil {
		return err
	}

	switch n {
	case 1, 2, 3:
		sc.Masses[n-1], err = s.Number("new mass : ", positive)
	case 4:
		sc.Eccentricity, err = s.Number("new eccentricity : ", eccentricity)
	case 5:
		sc.Separation, err = s.Number("new value : ", positive)
	case 6:
		err = s.askPosition(sc, "new ")
	case 7:
		err = s.askVelocity(sc, "new ")
	case 8:
		sc.Duration, err = s.Number("new duration : ", positive)
	}
	if err != nil {
		return err
	}
	s.println()
	// A new orbit can move body 2 onto the third body.
	return s.clearPosition(sc)
}

func (s *Session) Goodbye() {
	s.println(goodbye)
}

// Request is one simulation the user asked for.
type Request struct {
	Scenario *config.Scenario
	Display  Display
	Save     bool
}

// Handler simulates and shows a request.
type Handler func(ctx context.Context, req Request) error

// Run drives the whole dialogue. Presets are shown once; custom scenarios
// loop until the user stops changing parameters. In custom mode a handler
// failure caused by the parameters themselves is reported and the user may
// change them; any other error ends the session.
func (s *Session) Run(ctx context.Context, handle Handler) error {
	if err := s.Welcome(); err != nil {
		return err
	}
	mode, err := s.AskMode()
	if err != nil {
		return err
	}

	var sc *config.Scenario
	switch mode {
	case ModePresets:
		p, err := s.AskPreset()
		if err != nil {
			return err
		}
		if sc, err = config.Resolve(p, nil); err != nil {
			return err
		}
	case ModeCustom:
		if err := s.ShowHelp(); err != nil {
			return err
		}
		if sc, err = s.AskCustom(); err != nil {
			return err
		}
	}

	s.println("Oooh.. This is getting so interesting!!")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		req := Request{Scenario: sc.Clone()}
		if req.Display, err = s.AskDisplay(); err != nil {
			return err
		}
		if req.Display == DisplayFinal {
			if req.Save, err = s.AskSave(); err != nil {
				return err
			}
		}

		if err := handle(ctx, req); err != nil {
			if mode == ModePresets || !badParameters(err) {
				return err
			}
			s.println(s.warn.Render("These parameters cannot be simulated: " + firstLine(err.Error())))
			s.println()
		}

		if mode == ModePresets {
			s.Goodbye()
			return nil
		}
		again, err := s.AskAgain()
		if err != nil {
			return err
		}
		if !again {
			s.Goodbye()
			return nil
		}
		if err := s.AskChange(sc); err != nil {
			return err
		}
	}
}

func badParameters(err error) bool {
	var simErr *dynamo.SimulationError
	return errors.As(err, &simErr) ||
		errors.Is(err, dynamo.ErrSingularity) ||
		errors.Is(err, dynamo.ErrInvalidState) ||
		errors.Is(err, dynamo.ErrInvalidMass)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
