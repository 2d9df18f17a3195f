package document

import (
	"strconv"

	"prestamos-backend/internal/domain/errs"
)

// Slot is one document kind tracked in users.document_status_code.
type Slot string

const (
	SlotCedula          Slot = "cedula"
	SlotEstadoCuenta    Slot = "estadoCuenta"
	SlotCartaTrabajo    Slot = "cartaTrabajo"
	SlotVideoAceptacion Slot = "videoAceptacion"
)

// SlotOrder is a versioned wire contract shared with the mobile client.
// Reordering or resizing it breaks every stored code.
var SlotOrder = []Slot{SlotCedula, SlotEstadoCuenta, SlotCartaTrabajo, SlotVideoAceptacion}

type State string

const (
	StatePendiente State = "pendiente"
	StateEnviado   State = "enviado"
	StateError     State = "error"
	// StateUnknown is what bit pair 11 decodes to. No encoder writes it.
	StateUnknown State = "desconocido"
)

const (
	bitsPerSlot = 2
	slotMask    = 0b11
	// MaxCode is the largest code representable by len(SlotOrder) slots.
	MaxCode = 1<<(bitsPerSlot*4) - 1
)

var stateBits = map[State]int{
	StatePendiente: 0b00,
	StateEnviado:   0b01,
	StateError:     0b10,
}

func ParseSlot(s string) (Slot, error) {
	for _, slot := range SlotOrder {
		if string(slot) == s {
			return slot, nil
		}
	}
	return "", errs.Validation("slot", "unknown document slot "+strconv.Quote(s))
}

// ParseState accepts only the states an encoder may write.
func ParseState(s string) (State, error) {
	st := State(s)
	if _, ok := stateBits[st]; !ok {
		return "", errs.Validation("state", "unknown document state "+strconv.Quote(s))
	}
	return st, nil
}

func shiftFor(slot Slot) (int, bool) {
	n := len(SlotOrder)
	for i, s := range SlotOrder {
		if s == slot {
			return (n - 1 - i) * bitsPerSlot, true
		}
	}
	return 0, false
}

func checkRange(code int) error {
	if code < 0 || code > MaxCode {
		return errs.Validation("document_status_code", "must be between 0 and "+strconv.Itoa(MaxCode))
	}
	return nil
}

// Decode unpacks every slot of code. Pair 11 yields StateUnknown.
func Decode(code int) (map[Slot]State, error) {
	if err := checkRange(code); err != nil {
		return nil, err
	}
	out := make(map[Slot]State, len(SlotOrder))
	for _, slot := range SlotOrder {
		shift, _ := shiftFor(slot)
		out[slot] = stateFromBits((code >> shift) & slotMask)
	}
	return out, nil
}

func stateFromBits(b int) State {
	switch b {
	case 0b00:
		return StatePendiente
	case 0b01:
		return StateEnviado
	case 0b10:
		return StateError
	default:
		return StateUnknown
	}
}

// Encode rewrites the two bits of slot in prev and leaves every other bit
// untouched.
func Encode(prev int, slot Slot, state State) (int, error) {
	if err := checkRange(prev); err != nil {
		return 0, err
	}
	shift, ok := shiftFor(slot)
	if !ok {
		return 0, errs.Validation("slot", "unknown document slot "+strconv.Quote(string(slot)))
	}
	bits, ok := stateBits[state]
	if !ok {
		return 0, errs.Validation("state", "unknown document state "+strconv.Quote(string(state)))
	}
	cleared := prev &^ (slotMask << shift)
	return cleared | bits<<shift, nil
}
