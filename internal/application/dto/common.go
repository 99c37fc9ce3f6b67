package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/cashbook-api/internal/domain"
)

// DateLayout formato de fecha de los formularios (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// NowUTC reloj por defecto de los casos de uso.
func NowUTC() time.Time { return time.Now().UTC() }

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseDate acepta YYYY-MM-DD o RFC3339. Vacío devuelve def. Una fecha sin hora se
// interpreta como medianoche en la zona de def.
func ParseDate(s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, def.Location()); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q: %w", s, domain.ErrInvalidInput)
	}
	return t, nil
}

// DateRange ventana [From, To] con ambos extremos incluidos. To cubre el día completo.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange construye la ventana a partir de fechas de formulario. Sin from usa el día 1 del
// mes de now; sin to usa now. El extremo final se lleva a 23:59:59.999 del día.
func NewDateRange(from, to string, now time.Time) (DateRange, error) {
	loc := now.Location()
	defFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	defTo := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	f, err := ParseDate(from, defFrom)
	if err != nil {
		return DateRange{}, err
	}
	t, err := ParseDate(to, defTo)
	if err != nil {
		return DateRange{}, err
	}
	f = time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, loc)
	t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	if t.Before(f) {
		return DateRange{}, fmt.Errorf("rango %s > %s: %w", from, to, domain.ErrInvalidInput)
	}
	return DateRange{From: f, To: t}, nil
}

// Contains indica si t cae dentro de la ventana.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}
