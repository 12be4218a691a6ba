package hitbox

import "errors"

var (
	ErrInvalidCastData   = errors.New("hitbox: invalid cast data")
	ErrInvalidResolution = errors.New("hitbox: invalid resolution")
	ErrInvalidTimer      = errors.New("hitbox: invalid timer")
	ErrDestroyed         = errors.New("hitbox: used after Destroy")
	ErrNilInstance       = errors.New("hitbox: nil instance")
	ErrNilCaster         = errors.New("hitbox: nil caster")
	ErrNilTickSource     = errors.New("hitbox: no tick source")
	ErrNilPoint          = errors.New("hitbox: nil point")
)
