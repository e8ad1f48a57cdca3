package cache

import "errors"

var (
	// ErrCacheMiss возвращается, когда значения нет в кэше
	ErrCacheMiss = errors.New("cache: miss")

	// ErrCache возвращается при ошибках Redis или сериализации
	ErrCache = errors.New("cache: redis error")
)
