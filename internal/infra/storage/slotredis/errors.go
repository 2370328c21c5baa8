package slotredis

import "errors"

var (
	// ErrRedis возвращается при ошибке выполнения команды Redis
	ErrRedis = errors.New("slotredis.store: redis command failed")

	// ErrEncode возвращается при ошибке сериализации удержания
	ErrEncode = errors.New("slotredis.store: failed to encode hold")

	// ErrDecode возвращается при ошибке десериализации удержания
	ErrDecode = errors.New("slotredis.store: failed to decode hold")
)
