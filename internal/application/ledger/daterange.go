package ledger

import (
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain"
)

const dateLayout = "2006-01-02"

// parseDateRange convierte fechas calendario inclusivas (YYYY-MM-DD) en los
// límites 00:00:00 y 23:59:59 del rango. Si ambas vienen vacías y el rango no
// es obligatorio devuelve nil, nil. Un solo límite presente es inválido.
func parseDateRange(start, end string, required bool) (from, to *time.Time, err error) {
	if start == "" && end == "" {
		if required {
			return nil, nil, domain.NewValidationError("start_date", "start_date y end_date son obligatorios").
				Add("end_date", "start_date y end_date son obligatorios")
		}
		return nil, nil, nil
	}
	if start == "" {
		return nil, nil, domain.NewValidationError("start_date", "start_date es obligatorio cuando se envía end_date")
	}
	if end == "" {
		return nil, nil, domain.NewValidationError("end_date", "end_date es obligatorio cuando se envía start_date")
	}
	s, perr := time.Parse(dateLayout, start)
	if perr != nil {
		return nil, nil, domain.NewValidationError("start_date", "formato de fecha inválido, se espera YYYY-MM-DD")
	}
	e, perr := time.Parse(dateLayout, end)
	if perr != nil {
		return nil, nil, domain.NewValidationError("end_date", "formato de fecha inválido, se espera YYYY-MM-DD")
	}
	if e.Before(s) {
		return nil, nil, domain.NewValidationError("end_date", "end_date no puede ser anterior a start_date")
	}
	f := s
	t := e.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return &f, &t, nil
}
