package mines

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid board configuration")
	ErrInvalidIndex         = errors.New("invalid cell index")
	ErrGameAlreadyOver      = errors.New("game already over")
)
