package agecheck

import (
	"fmt"
	"time"
)

// Caller es lo mínimo que el gate necesita de la identidad.
type Caller struct {
	ID        string
	Birthdate *Date
}

// Policy define la edad mínima exigida.
type Policy struct {
	MinAge int `yaml:"min_age" json:"min_age"`
}

var DefaultPolicy = Policy{MinAge: 18}

type Outcome string

const (
	OutcomeAllowed Outcome = "allowed"
	OutcomeDenied  Outcome = "denied"
)

type DenialReason string

const (
	ReasonBirthdateMissing DenialReason = "BIRTHDATE_REQUIRED"
	ReasonBelowMinimumAge  DenialReason = "AGE_RESTRICTED"
)

// Denial describe por qué se negó el acceso. RequiredAge/ActualAge solo
// tienen sentido con ReasonBelowMinimumAge.
type Denial struct {
	Reason      DenialReason
	RequiredAge int
	ActualAge   int
}

func (d Denial) String() string {
	if d.Reason == ReasonBelowMinimumAge {
		return fmt.Sprintf("%s (required=%d actual=%d)", d.Reason, d.RequiredAge, d.ActualAge)
	}
	return string(d.Reason)
}

// Result es el resultado de una evaluación: Allowed con ComputedAge, o Denied con Denial.
type Result struct {
	Outcome     Outcome
	ComputedAge int
	Denial      *Denial
}

func (r Result) Allowed() bool { return r.Outcome == OutcomeAllowed }

func Allow(age int) Result {
	if age < 0 {
		age = 0
	}
	return Result{Outcome: OutcomeAllowed, ComputedAge: age}
}

func DenyBirthdateMissing() Result {
	return Result{
		Outcome: OutcomeDenied,
		Denial:  &Denial{Reason: ReasonBirthdateMissing},
	}
}

func DenyBelowMinimumAge(required, actual int) Result {
	if actual < 0 {
		actual = 0
	}
	return Result{
		Outcome:     OutcomeDenied,
		ComputedAge: actual,
		Denial: &Denial{
			Reason:      ReasonBelowMinimumAge,
			RequiredAge: required,
			ActualAge:   actual,
		},
	}
}

// Gate evalúa políticas de edad sobre datos ya cargados. No hace I/O.
type Gate struct {
	now func() time.Time
	loc *time.Location
}

// NewGate usa time.Now y UTC para decidir "hoy".
func NewGate() *Gate {
	return &Gate{now: time.Now, loc: time.UTC}
}

// NewGateAt permite fijar reloj y zona (tests, despliegues con zona local).
func NewGateAt(now func() time.Time, loc *time.Location) *Gate {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Gate{now: now, loc: loc}
}

// Today es la fecha de referencia que usa Evaluate.
func (g *Gate) Today() Date {
	return DateOf(g.now().In(g.loc))
}

// Evaluate asume un caller identificado; la falta de identidad se resuelve antes.
func (g *Gate) Evaluate(caller Caller, policy Policy) Result {
	if caller.Birthdate == nil || caller.Birthdate.IsZero() {
		return DenyBirthdateMissing()
	}

	age, err := ComputeAge(*caller.Birthdate, g.Today())
	if err != nil {
		// fecha futura o inválida: no hay edad computable
		return DenyBelowMinimumAge(policy.MinAge, 0)
	}

	if age < policy.MinAge {
		return DenyBelowMinimumAge(policy.MinAge, age)
	}
	return Allow(age)
}
