package occupancy

import "errors"

// ErrInternal возвращается при ошибках загрузки бронирований или каталога
var ErrInternal = errors.New("occupancy: internal error")
