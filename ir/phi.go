package ir

import "fmt"

// PhiChoice pairs a guard expression with the value taken when it holds.
type PhiChoice struct {
	Guard Expr
	Value Expr
}

// Phi merges values from multiple predecessors into Var.
type Phi struct {
	Var     Var
	Choices []PhiChoice
}

// NewPhi builds an empty Phi over v.
func NewPhi(v Var) *Phi { return &Phi{Var: v} }

// AddChoice appends a (guard, value) pair to the phi.
func (p *Phi) AddChoice(guard, value Expr) {
	p.Choices = append(p.Choices, PhiChoice{Guard: guard, Value: value})
}

func (p *Phi) String() string {
	s := fmt.Sprintf("%s = phi(", p.Var)
	for i, c := range p.Choices {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("[%s: %s]", c.Guard, c.Value)
	}
	return s + ")"
}
