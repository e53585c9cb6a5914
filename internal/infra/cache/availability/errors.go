package availability

import "errors"

var (
	// ErrCacheMiss возвращается, когда записи нет в кэше
	ErrCacheMiss = errors.New("availability.cache: miss")

	// ErrStale возвращается из Set, когда после чтения Stamp запись была инвалидирована
	ErrStale = errors.New("availability.cache: stale write skipped")

	// ErrCache возвращается при ошибках Redis или сериализации
	ErrCache = errors.New("availability.cache: error")
)
