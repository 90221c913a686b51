package section

import (
	"time"
)

// DVB time fields are encoded as 16 bits of Modified Julian Date followed
// by a BCD-packed hour/minute/second duration since midnight UTC, per
// Annex C of ETSI EN 300 468.
//
// Y/M/D are built straight into time.Date rather than round-tripped
// through a "YY-MM-DD" string with a 2-digit-year layout, which only
// round-trips for years 1900-1999 (Y is full years since 1900 per
// Annex C, not Y mod 100, so any post-1999 broadcast date would
// silently parse to the zero time that way).

func readDVBTime(r *BitReader) time.Time {
	mjd := r.ReadUint16()

	yt := int((float32(mjd) - 15078.2) / 365.25)
	mt := int((float64(mjd) - 14956.1 - float64(uint16(float64(yt)*365.25))) / 30.6001)
	d := int(mjd - 14956 - uint16(float64(yt)*365.25) - uint16(float64(mt)*30.6001))

	k := 0
	if mt == 14 || mt == 15 {
		k = 1
	}
	y := yt + k
	m := mt - 1 - k*12

	t := time.Date(1900+y, time.Month(m), d, 0, 0, 0, 0, time.UTC)

	return t.Add(readDVBDurationSeconds(r))
}

func writeDVBTime(w *BitWriter, t time.Time) {
	year := t.Year() - 1900
	month := t.Month()
	day := t.Day()

	l := 0
	if month <= time.February {
		l = 1
	}

	mjd := 14956 + day + int(float64(year-l)*365.25) + int(float64(int(month)+1+l*12)*30.6001)

	w.WriteUint16(uint16(mjd))
	writeDVBDurationSeconds(w, t.Sub(t.Truncate(24*time.Hour)))
}

func readDVBDurationMinutes(r *BitReader) time.Duration {
	return time.Duration(r.ReadBCD(2))*time.Hour + time.Duration(r.ReadBCD(2))*time.Minute
}

func writeDVBDurationMinutes(w *BitWriter, d time.Duration) {
	w.WriteBCD(int(d.Hours()), 2)
	w.WriteBCD(int(d.Minutes())%60, 2)
}

func readDVBDurationSeconds(r *BitReader) time.Duration {
	return time.Duration(r.ReadBCD(2))*time.Hour +
		time.Duration(r.ReadBCD(2))*time.Minute +
		time.Duration(r.ReadBCD(2))*time.Second
}

func writeDVBDurationSeconds(w *BitWriter, d time.Duration) {
	w.WriteBCD(int(d.Hours()), 2)
	w.WriteBCD(int(d.Minutes())%60, 2)
	w.WriteBCD(int(d.Seconds())%60, 2)
}
