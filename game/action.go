package game

import (
	"encoding/json"
	"fmt"
)

// Action is one of the two moves an agent can play in a round.
type Action int

const (
	// Cooperate is the cooperative move.
	Cooperate Action = iota
	// Defect is the defecting move. It is also the conservative fallback
	// substituted when an agent exhausts its decision retries.
	Defect
)

// String returns the canonical uppercase token used in prompts and results.
func (a Action) String() string {
	switch a {
	case Cooperate:
		return "COOPERATE"
	case Defect:
		return "DEFECT"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction maps a canonical token back to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "COOPERATE":
		return Cooperate, nil
	case "DEFECT":
		return Defect, nil
	default:
		return Defect, fmt.Errorf("unknown action %q", s)
	}
}

// MarshalJSON encodes the action as its canonical token.
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an action from its canonical token.
func (a *Action) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAction(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Actions lists every valid action. Used to verify payoff matrix totality.
var Actions = []Action{Cooperate, Defect}

// ActionPair is an ordered (self, other) pair of actions.
type ActionPair struct {
	Self  Action
	Other Action
}

// Payoff is the numeric outcome of one round for the (self, other) pair.
type Payoff struct {
	Self  int
	Other int
}

// PayoffMatrix maps every ordered action pair to its payoff pair. The matrix
// must be total over all four pairs; asymmetric matrices are permitted.
type PayoffMatrix map[ActionPair]Payoff

// DefaultPayoffMatrix returns the standard prisoner's dilemma matrix
// {(C,C):(3,3), (C,D):(0,5), (D,C):(5,0), (D,D):(1,1)}.
func DefaultPayoffMatrix() PayoffMatrix {
	return PayoffMatrix{
		{Cooperate, Cooperate}: {3, 3},
		{Cooperate, Defect}:    {0, 5},
		{Defect, Cooperate}:    {5, 0},
		{Defect, Defect}:       {1, 1},
	}
}

// Resolve returns the payoff pair for an ordered action pair. The matrix is
// checked for totality once at configuration time, so a plain lookup is safe
// here.
func (m PayoffMatrix) Resolve(self, other Action) (int, int) {
	p := m[ActionPair{Self: self, Other: other}]
	return p.Self, p.Other
}

// validate verifies the matrix covers all four ordered action pairs.
func (m PayoffMatrix) validate() error {
	for _, self := range Actions {
		for _, other := range Actions {
			if _, ok := m[ActionPair{Self: self, Other: other}]; !ok {
				return &ConfigError{Field: "payoff_matrix", Reason: fmt.Sprintf("missing entry for (%s, %s)", self, other)}
			}
		}
	}
	return nil
}
