package check_slot

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому терапевту
	ErrServiceNotFound = errors.New("check_slot: service not found")

	// ErrServiceInactive возвращается, когда услуга снята с продажи
	ErrServiceInactive = errors.New("check_slot: service is not active")

	// ErrCatalogUnavailable возвращается, когда каталог услуг недоступен
	ErrCatalogUnavailable = errors.New("check_slot: catalog service unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_slot: internal error")
)
