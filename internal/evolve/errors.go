package evolve

import "github.com/sawpanic/tradebias/internal/apperr"

func configErr(message string) error {
	return apperr.New(apperr.Configuration, message)
}
