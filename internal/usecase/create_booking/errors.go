package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapyBookingService/internal/availability"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому терапевту
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга снята с продажи
	ErrServiceInactive = errors.New("create_booking: service is not active")

	// ErrClientNotFound возвращается, когда клиента нет в справочнике
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrCouponNotFound возвращается, когда купон не найден
	ErrCouponNotFound = errors.New("create_booking: coupon not found")

	// ErrCouponNotUsable возвращается, когда купон неактивен, истёк или исчерпан
	ErrCouponNotUsable = errors.New("create_booking: coupon is not usable")

	// ErrSlotNotAvailable возвращается, когда слот нельзя забронировать
	// Конкретная причина доступна через *SlotNotAvailableError
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrCatalogUnavailable возвращается, когда каталог услуг недоступен
	ErrCatalogUnavailable = errors.New("create_booking: catalog service unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// SlotNotAvailableError отказ с кодом причины
// CONFLICT также означает проигранную гонку при коммите: клиенту нужно заново получить свободные слоты
type SlotNotAvailableError struct {
	Reason availability.ReasonCode
}

func (e *SlotNotAvailableError) Error() string {
	return fmt.Sprintf("%v: %s", ErrSlotNotAvailable, e.Reason)
}

func (e *SlotNotAvailableError) Unwrap() error {
	return ErrSlotNotAvailable
}

// ReasonOf извлекает код причины отказа из ошибки
func ReasonOf(err error) (availability.ReasonCode, bool) {
	var slotErr *SlotNotAvailableError
	if errors.As(err, &slotErr) {
		return slotErr.Reason, true
	}
	return "", false
}
