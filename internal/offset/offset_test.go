package offset

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/SmitUplenchwar2687/easytime/internal/clock"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 13, 45, 30, 123456789, time.UTC)
}

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{2024, true},
		{2023, false},
		{1900, false},
		{2000, true},
		{2100, false},
		{2400, true},
		{0, true},
		{-4, true},
		{-100, false},
	}
	for _, tt := range tests {
		if got := IsLeapYear(tt.year); got != tt.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestIsLeapYear_MatchesGregorianRule(t *testing.T) {
	for y := -800; y <= 2800; y++ {
		want := y%4 == 0 && (y%100 != 0 || y%400 == 0)
		if got := IsLeapYear(y); got != want {
			t.Fatalf("IsLeapYear(%d) = %v, want %v", y, got, want)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2023, time.February, 28},
		{2024, time.February, 29},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2023, time.April, 30},
		{2023, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestOffsetCalendar(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		n    int64
		unit Unit
		dir  Direction
		want time.Time
	}{
		{"jan31 plus month non-leap clamps", date(2023, 1, 31), 1, Month, Future, date(2023, 2, 28)},
		{"jan31 plus month leap clamps", date(2024, 1, 31), 1, Month, Future, date(2024, 2, 29)},
		{"leap day plus four years", date(2020, 2, 29), 4, Year, Future, date(2024, 2, 29)},
		{"leap day plus one year clamps", date(2020, 2, 29), 1, Year, Future, date(2021, 2, 28)},
		{"leap day plus decade clamps", date(2020, 2, 29), 1, Decade, Future, date(2030, 2, 28)},
		{"leap day plus century clamps", date(2000, 2, 29), 1, Century, Future, date(2100, 2, 28)},
		{"leap day plus four centuries", date(2000, 2, 29), 4, Century, Future, date(2400, 2, 29)},
		{"leap day plus millennium clamps", date(2000, 2, 29), 1, Millennium, Future, date(3000, 2, 28)},
		{"mar31 minus month leap", date(2024, 3, 31), 1, Month, Past, date(2024, 2, 29)},
		{"may31 minus month", date(2023, 5, 31), 1, Month, Past, date(2023, 4, 30)},
		{"carry into next year", date(2023, 11, 15), 3, Month, Future, date(2024, 2, 15)},
		{"borrow from previous year", date(2023, 2, 15), 3, Month, Past, date(2022, 11, 15)},
		{"many months", date(2023, 1, 31), 25, Month, Future, date(2025, 2, 28)},
		{"negative magnitude mirrors direction", date(2023, 3, 31), -1, Month, Future, date(2023, 2, 28)},
		{"negative magnitude in past", date(2023, 1, 31), -1, Month, Past, date(2023, 2, 28)},
		{"crossing year zero", date(1, 1, 15), 1, Month, Past, date(0, 12, 15)},
		{"years ago", date(2024, 6, 1), 10, Year, Past, date(2014, 6, 1)},
		{"millennia ago", date(2024, 6, 1), 2, Millennium, Past, date(24, 6, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OffsetCalendar(tt.ref, tt.n, tt.unit, tt.dir)
			if err != nil {
				t.Fatalf("OffsetCalendar() error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("OffsetCalendar(%s, %d, %s, %s) = %s, want %s",
					tt.ref.Format(time.RFC3339), tt.n, tt.unit, tt.dir, got.Format(time.RFC3339), tt.want.Format(time.RFC3339))
			}
		})
	}
}

func TestOffsetCalendar_PreservesClockAndZone(t *testing.T) {
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("IST", 5*3600+1800),
		time.FixedZone("NST", -(3*3600 + 1800)),
	}
	for _, loc := range zones {
		ref := time.Date(2020, 2, 29, 23, 59, 59, 999999999, loc)
		for _, unit := range []Unit{Month, Year, Decade, Century, Millennium} {
			for _, dir := range []Direction{Future, Past} {
				got, err := OffsetCalendar(ref, 3, unit, dir)
				if err != nil {
					t.Fatalf("OffsetCalendar(%s, %s) error: %v", unit, dir, err)
				}
				if got.Location() != ref.Location() {
					t.Errorf("%s %s: location = %v, want %v", unit, dir, got.Location(), ref.Location())
				}
				_, gotOff := got.Zone()
				_, refOff := ref.Zone()
				if gotOff != refOff {
					t.Errorf("%s %s: zone offset = %d, want %d", unit, dir, gotOff, refOff)
				}
				h, m, s := got.Clock()
				if h != 23 || m != 59 || s != 59 || got.Nanosecond() != 999999999 {
					t.Errorf("%s %s: time of day = %02d:%02d:%02d.%d, want 23:59:59.999999999",
						unit, dir, h, m, s, got.Nanosecond())
				}
			}
		}
	}
}

func loadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("time zone %s not available: %v", name, err)
	}
	return loc
}

func TestOffsetCalendar_AcrossDST(t *testing.T) {
	ny := loadLocation(t, "America/New_York")

	winter := time.Date(2024, 1, 15, 12, 0, 0, 0, ny)
	summer, err := OffsetCalendar(winter, 6, Month, Future)
	if err != nil {
		t.Fatal(err)
	}
	if h, m, _ := summer.Clock(); h != 12 || m != 0 || summer.Day() != 15 || summer.Month() != time.July {
		t.Errorf("Jan 15 12:00 + 6 months = %s, want Jul 15 12:00", summer)
	}
	if name, off := summer.Zone(); name != "EDT" || off != -4*3600 {
		t.Errorf("zone = %s %d, want EDT -14400", name, off)
	}
	// The wall clock is kept, so the elapsed time is an hour short of the
	// calendar span.
	if got, want := summer.Sub(winter), 182*24*time.Hour-time.Hour; got != want {
		t.Errorf("elapsed = %s, want %s", got, want)
	}

	back, err := OffsetCalendar(summer, 6, Month, Past)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(winter) {
		t.Errorf("round trip = %s, want %s", back, winter)
	}
}

func TestOffsetCalendar_DSTGap(t *testing.T) {
	ny := loadLocation(t, "America/New_York")

	// 2024-03-10 02:30 does not exist in New York. time.Date resolves it
	// to 01:30 EST, an hour before the skipped wall time.
	ref := time.Date(2024, 2, 10, 2, 30, 0, 0, ny)
	got, err := OffsetCalendar(ref, 1, Month, Future)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Feb 10 02:30 + 1 month = %s, want %s", got, want.In(ny))
	}
	if got.Location() != ny {
		t.Errorf("location = %v, want %v", got.Location(), ny)
	}
	if !got.Equal(time.Date(2024, 3, 10, 2, 30, 0, 0, ny)) {
		t.Error("result should match time.Date for the same wall time")
	}
}

func TestOffsetFixed_AcrossDST(t *testing.T) {
	ny := loadLocation(t, "America/New_York")

	// A fixed day is 24 elapsed hours, so crossing spring-forward shifts
	// the wall clock by an hour.
	ref := time.Date(2024, 3, 9, 12, 0, 0, 0, ny)
	got, err := OffsetFixed(ref, 1, Day, Future)
	if err != nil {
		t.Fatal(err)
	}
	if h, _, _ := got.Clock(); h != 13 || got.Day() != 10 {
		t.Errorf("Mar 9 12:00 + 1 day = %s, want Mar 10 13:00 EDT", got)
	}
}

func TestOffset_ZeroIsIdentity(t *testing.T) {
	refs := []time.Time{
		date(2024, 2, 29),
		date(2023, 1, 31),
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.FixedZone("X", -7*3600)),
	}
	for _, ref := range refs {
		for _, unit := range Units {
			for _, dir := range []Direction{Future, Past} {
				got, err := Offset(ref, 0, unit, dir)
				if err != nil {
					t.Fatalf("Offset(%s, 0, %s, %s) error: %v", ref, unit, dir, err)
				}
				if !got.Equal(ref) || got.Location() != ref.Location() {
					t.Errorf("Offset(%s, 0, %s, %s) = %s, want unchanged", ref, unit, dir, got)
				}
			}
		}
	}
}

func TestOffsetFixed(t *testing.T) {
	ref := date(2024, 2, 28)
	tests := []struct {
		n    int64
		unit Unit
		dir  Direction
		want time.Time
	}{
		{90, Second, Future, ref.Add(90 * time.Second)},
		{90, Minute, Past, ref.Add(-90 * time.Minute)},
		{36, Hour, Future, ref.Add(36 * time.Hour)},
		{1, Day, Future, date(2024, 2, 29)},
		{2, Day, Future, date(2024, 3, 1)},
		{-2, Day, Past, date(2024, 3, 1)},
		{366, Day, Past, date(2023, 2, 27)},
	}
	for _, tt := range tests {
		got, err := OffsetFixed(ref, tt.n, tt.unit, tt.dir)
		if err != nil {
			t.Fatalf("OffsetFixed(%d, %s, %s) error: %v", tt.n, tt.unit, tt.dir, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("OffsetFixed(%d, %s, %s) = %s, want %s", tt.n, tt.unit, tt.dir, got, tt.want)
		}
	}
}

func TestOffsetFixed_InverseLaw(t *testing.T) {
	refs := []time.Time{
		date(2024, 2, 29),
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 3, 26, 1, 30, 0, 0, time.FixedZone("CET", 3600)),
	}
	mags := []int64{1, 7, 59, 1000, 123456, 1 << 20, -42}
	for _, ref := range refs {
		for _, unit := range []Unit{Second, Minute, Hour, Day} {
			for _, m := range mags {
				for _, dir := range []Direction{Future, Past} {
					there, err := OffsetFixed(ref, m, unit, dir)
					if err != nil {
						t.Fatalf("OffsetFixed(%d %s %s) error: %v", m, unit, dir, err)
					}
					back, err := OffsetFixed(there, m, unit, dir.Inverse())
					if err != nil {
						t.Fatalf("inverse OffsetFixed(%d %s %s) error: %v", m, unit, dir, err)
					}
					if !back.Equal(ref) {
						t.Errorf("%d %s %s then back = %s, want %s", m, unit, dir, back, ref)
					}
				}
			}
		}
	}
}

func TestOffsetCalendar_InverseOnRegularDays(t *testing.T) {
	ref := date(2023, 7, 15)
	for _, unit := range []Unit{Month, Year, Decade, Century, Millennium} {
		for _, m := range []int64{1, 5, 13, 100} {
			there, err := OffsetCalendar(ref, m, unit, Future)
			if err != nil {
				t.Fatalf("%d %s: %v", m, unit, err)
			}
			back, err := OffsetCalendar(there, m, unit, Past)
			if err != nil {
				t.Fatalf("%d %s back: %v", m, unit, err)
			}
			if !back.Equal(ref) {
				t.Errorf("%d %s there and back = %s, want %s", m, unit, back, ref)
			}
		}
	}
}

func TestOffset_Overflow(t *testing.T) {
	nearMax := time.Date(MaxYear, 12, 31, 23, 0, 0, 0, time.UTC)
	nearMin := time.Date(MinYear, 1, 1, 1, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ref  time.Time
		n    int64
		unit Unit
		dir  Direction
	}{
		{"seconds beyond int64", date(2024, 1, 1), math.MaxInt64, Second, Future},
		{"days product overflows", date(2024, 1, 1), math.MaxInt64 / 2, Day, Future},
		{"negating min int64", date(2024, 1, 1), math.MinInt64, Second, Past},
		{"past max year by an hour", nearMax, 2, Hour, Future},
		{"before min year by an hour", nearMin, 2, Hour, Past},
		{"huge day count", date(2024, 1, 1), 1 << 40, Day, Future},
		{"millennia past max year", date(2024, 1, 1), 300, Millennium, Future},
		{"millennia before min year", date(2024, 1, 1), 300, Millennium, Past},
		{"month product overflows", date(2024, 1, 1), math.MaxInt64 / 100, Millennium, Future},
		{"month past max year", time.Date(MaxYear, 12, 1, 0, 0, 0, 0, time.UTC), 1, Month, Future},
		{"month before min year", time.Date(MinYear, 1, 1, 0, 0, 0, 0, time.UTC), 1, Month, Past},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Offset(tt.ref, tt.n, tt.unit, tt.dir)
			if !errors.Is(err, ErrOverflow) {
				t.Fatalf("Offset() error = %v, want ErrOverflow", err)
			}
		})
	}
}

func TestOffset_EdgesOfRangeAreValid(t *testing.T) {
	top := time.Date(MaxYear, 12, 31, 22, 0, 0, 0, time.UTC)
	if got, err := Offset(top, 1, Hour, Future); err != nil || got.Year() != MaxYear {
		t.Errorf("Offset(top, 1h) = %v, %v", got, err)
	}
	bottom := time.Date(MinYear, 2, 1, 0, 0, 0, 0, time.UTC)
	if got, err := Offset(bottom, 1, Month, Past); err != nil || got.Year() != MinYear {
		t.Errorf("Offset(bottom, -1 month) = %v, %v", got, err)
	}
}

func TestOffset_UnitErrors(t *testing.T) {
	ref := date(2024, 1, 1)
	if _, err := OffsetFixed(ref, 1, Month, Future); !errors.Is(err, ErrUnitKind) {
		t.Errorf("OffsetFixed(Month) error = %v, want ErrUnitKind", err)
	}
	if _, err := OffsetCalendar(ref, 1, Day, Future); !errors.Is(err, ErrUnitKind) {
		t.Errorf("OffsetCalendar(Day) error = %v, want ErrUnitKind", err)
	}
	if _, err := Offset(ref, 1, Unit("fortnights"), Future); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("Offset(fortnights) error = %v, want ErrUnknownUnit", err)
	}
	if _, err := Offset(ref, 1, Day, Direction("sideways")); !errors.Is(err, ErrUnknownDirection) {
		t.Errorf("Offset(sideways) error = %v, want ErrUnknownDirection", err)
	}
}

func TestApply(t *testing.T) {
	got, err := Apply(Request{Reference: date(2023, 1, 31), Magnitude: 1, Unit: Month, Direction: Future})
	if err != nil {
		t.Fatal(err)
	}
	if want := date(2023, 2, 28); !got.Equal(want) {
		t.Errorf("Apply() = %s, want %s", got, want)
	}
}

func TestFromNowAndAgo(t *testing.T) {
	vc := clock.NewVirtualClock(date(2024, 1, 31))

	later, err := FromNow(vc, 1, Month)
	if err != nil {
		t.Fatal(err)
	}
	if want := date(2024, 2, 29); !later.Equal(want) {
		t.Errorf("FromNow(1 month) = %s, want %s", later, want)
	}

	earlier, err := Ago(vc, 3, Day)
	if err != nil {
		t.Fatal(err)
	}
	if want := date(2024, 1, 28); !earlier.Equal(want) {
		t.Errorf("Ago(3 days) = %s, want %s", earlier, want)
	}
}

func TestOffsetArbitrary(t *testing.T) {
	ref := date(2024, 2, 20)
	d := 15*24*time.Hour + 10*time.Hour

	later, err := OffsetArbitrary(ref, d, Future)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 3, 6, 23, 45, 30, 123456789, time.UTC); !later.Equal(want) {
		t.Errorf("OffsetArbitrary(+%s) = %s, want %s", d, later, want)
	}

	back, err := OffsetArbitrary(later, d, Past)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(ref) {
		t.Errorf("OffsetArbitrary round trip = %s, want %s", back, ref)
	}

	if got, err := OffsetArbitrary(ref, 0, Past); err != nil || !got.Equal(ref) {
		t.Errorf("OffsetArbitrary(0) = %s, %v", got, err)
	}
	if _, err := OffsetArbitrary(ref, time.Duration(math.MinInt64), Past); !errors.Is(err, ErrOverflow) {
		t.Errorf("OffsetArbitrary(-min) error = %v, want ErrOverflow", err)
	}
	top := time.Date(MaxYear, 12, 31, 23, 0, 0, 0, time.UTC)
	if _, err := OffsetArbitrary(top, 2*time.Hour, Future); !errors.Is(err, ErrOverflow) {
		t.Errorf("OffsetArbitrary past MaxYear error = %v, want ErrOverflow", err)
	}
}

func TestOffset_DeterministicUnderConcurrency(t *testing.T) {
	ref := date(2020, 2, 29)
	want := make(map[Unit]time.Time, len(Units))
	for _, u := range Units {
		got, err := Offset(ref, 7, u, Future)
		if err != nil {
			t.Fatal(err)
		}
		want[u] = got
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, u := range Units {
				got, err := Offset(ref, 7, u, Future)
				if err != nil || !got.Equal(want[u]) {
					errs <- u.String()
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for u := range errs {
		t.Errorf("concurrent Offset(%s) disagreed with the sequential result", u)
	}
}
