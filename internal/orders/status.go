package orders

import "fmt"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// stockEffect: efek transisi status terhadap stok seluruh item order.
type stockEffect int

const (
	effectNone    stockEffect = iota
	effectRelease             // stok dikembalikan (reservasi dilepas)
	effectReserve             // stok dikurangi; gagal kalau kurang
)

// transitionEffect memetakan transisi ke efek stok:
//   - keluar dari non-CANCELLED ke CANCELLED  -> release
//   - keluar dari CANCELLED ke status lain    -> reserve
//   - masuk COMPLETED dari non-COMPLETED      -> reserve
//   - PENDING <-> PROCESSING & status sama    -> tanpa efek
func transitionEffect(from, to Status) stockEffect {
	switch {
	case from == to:
		return effectNone
	case to == StatusCancelled:
		return effectRelease
	case from == StatusCancelled:
		return effectReserve
	case to == StatusCompleted:
		return effectReserve
	default:
		return effectNone
	}
}
