package availability

import "errors"

var (
	// ErrConfigNotFound возвращается, когда у терапевта нет сохранённой конфигурации
	ErrConfigNotFound = errors.New("availability.repository: config not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации JSONB колонок
	ErrEncode = errors.New("availability.repository: failed to encode config")
)
