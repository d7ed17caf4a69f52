package agecheck

import (
	"fmt"
	"time"
)

// ComputeAge devuelve los años cumplidos a la fecha asOf.
//
// Un nacido el 29 de febrero cumple el 28 de febrero en años no bisiestos.
// Falla con ErrInvalidDate si alguna fecha no existe o si birthdate es posterior a asOf.
func ComputeAge(birthdate, asOf Date) (int, error) {
	if !birthdate.Valid() {
		return 0, fmt.Errorf("%w: birthdate %s", ErrInvalidDate, birthdate)
	}
	if !asOf.Valid() {
		return 0, fmt.Errorf("%w: reference date %s", ErrInvalidDate, asOf)
	}
	if birthdate.After(asOf) {
		return 0, fmt.Errorf("%w: birthdate %s is after %s", ErrInvalidDate, birthdate, asOf)
	}

	age := asOf.Year - birthdate.Year

	thMonth, thDay := birthdate.Month, birthdate.Day
	if thMonth == time.February && thDay == 29 && !isLeap(asOf.Year) {
		thDay = 28
	}

	if asOf.Month < thMonth || (asOf.Month == thMonth && asOf.Day < thDay) {
		age--
	}
	return age, nil
}
