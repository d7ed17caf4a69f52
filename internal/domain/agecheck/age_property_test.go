package agecheck

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestComputeAge_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// Property: en el aniversario n-ésimo la edad es exactamente n, y el día anterior n-1.
	properties.Property("age equals years elapsed on anniversary", prop.ForAll(
		func(year, month, day, n int) bool {
			b := MustDate(year, time.Month(month), day)
			anniversary := MustDate(year+n, time.Month(month), day)

			age, err := ComputeAge(b, anniversary)
			if err != nil || age != n {
				return false
			}

			dayBefore := DateOf(anniversary.Time().AddDate(0, 0, -1))
			prev, err := ComputeAge(b, dayBefore)
			return err == nil && prev == n-1
		},
		gen.IntRange(1900, 2050),
		gen.IntRange(1, 12),
		gen.IntRange(1, 28),
		gen.IntRange(1, 120),
	))

	// Property: la edad nunca decrece al avanzar la fecha de referencia.
	properties.Property("age is monotonic in asOf", prop.ForAll(
		func(year, month, day, offset1, offset2 int) bool {
			b := MustDate(year, time.Month(month), day)
			if offset1 > offset2 {
				offset1, offset2 = offset2, offset1
			}
			t1 := DateOf(b.Time().AddDate(0, 0, offset1))
			t2 := DateOf(b.Time().AddDate(0, 0, offset2))

			a1, err1 := ComputeAge(b, t1)
			a2, err2 := ComputeAge(b, t2)
			return err1 == nil && err2 == nil && a1 >= 0 && a1 <= a2
		},
		gen.IntRange(1900, 2050),
		gen.IntRange(1, 12),
		gen.IntRange(1, 28),
		gen.IntRange(0, 40000),
		gen.IntRange(0, 40000),
	))

	// Property: un 29 de febrero suma un año cada 28 de febrero de año no bisiesto.
	properties.Property("feb 29 birthdays turn over on feb 28 in common years", prop.ForAll(
		func(leapIndex, n int) bool {
			year := 1904 + 4*leapIndex
			if !isLeap(year) {
				return true
			}
			target := year + n
			if isLeap(target) {
				return true
			}
			b := MustDate(year, time.February, 29)
			age, err := ComputeAge(b, MustDate(target, time.February, 28))
			if err != nil || age != n {
				return false
			}
			before, err := ComputeAge(b, MustDate(target, time.February, 27))
			return err == nil && before == n-1
		},
		gen.IntRange(0, 40),
		gen.IntRange(1, 99),
	))

	properties.TestingRun(t)
}
