package gcode

type ModalGroup byte

// Only the groups the VM tracks are listed; everything else is
// ModalGroupNone.
const (
	ModalGroupNone ModalGroup = iota
	ModalGroupNonModal
	ModalGroupMotion
	ModalGroupDistanceMode
	ModalGroupUnits
	ModalGroupFeedRate
)

func (w Word) ModalGroup() ModalGroup {
	switch w.W {
	case 'G':
		switch w.Arg {
		case 4, 28, 53, 92:
			return ModalGroupNonModal
		case 0, 1, 2, 3:
			return ModalGroupMotion
		case 90, 91:
			return ModalGroupDistanceMode
		case 20, 21:
			return ModalGroupUnits
		}
	case 'F':
		return ModalGroupFeedRate
	}

	return ModalGroupNone
}
