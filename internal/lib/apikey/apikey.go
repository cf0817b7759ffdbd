// Package apikey кодирует и декодирует сохранённый API-ключ.
//
// Формат хранения совместим с клиентским приложением: обратимый base64.
// Это обфускация, а не защита; ключ для реальных запросов живёт в конфиге
// на сервере и не покидает его.
package apikey

import (
	"encoding/base64"
	"fmt"
)

// Encode возвращает base64-представление ключа для записи в хранилище настроек.
func Encode(key string) string {
	return base64.StdEncoding.EncodeToString([]byte(key))
}

// Decode восстанавливает исходный ключ из сохранённого значения.
func Decode(stored string) (string, error) {
	const op = "apikey.Decode"
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(raw), nil
}
