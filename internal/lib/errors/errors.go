package errors

import "errors"

// ErrNotFound возвращается хранилищем, когда ключа нет. Для кэша это
// обычный промах, для интересов - пустой список.
var ErrNotFound = errors.New("key not found")
