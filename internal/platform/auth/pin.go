package auth

import (
	"crypto/subtle"
	"errors"
)

var ErrPINRejected = errors.New("incorrect PIN")

// DeleteGate guards destructive actions behind one shared PIN.
type DeleteGate struct {
	pin []byte
}

func NewDeleteGate(pin string) *DeleteGate {
	return &DeleteGate{pin: []byte(pin)}
}

// Check returns ErrPINRejected unless pin equals the configured PIN.
func (g *DeleteGate) Check(pin string) error {
	if len(g.pin) == 0 || subtle.ConstantTimeCompare([]byte(pin), g.pin) != 1 {
		return ErrPINRejected
	}
	return nil
}
