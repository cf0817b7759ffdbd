// Package couponcode генерирует коды купонов в формате XXXX-XXXX-XXXX.
package couponcode

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength количество значимых символов кода без учёта дефисов.
const CodeLength = 12

var codePattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// Generate возвращает случайный код из заглавных латинских букв и цифр,
// сгруппированный по 4 символа через дефис, например AB12-CD34-EF56.
func Generate() (string, error) {
	const op = "couponcode.Generate"

	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var sb strings.Builder
	for i, b := range buf {
		if i > 0 && i%4 == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(alphabet[int(b)%len(alphabet)])
	}
	return sb.String(), nil
}

// GenerateUnique возвращает код, отсутствующий в множестве existing.
// Коллизии на практике крайне редки, цикл нужен для гарантии уникальности
// внутри одной партии.
func GenerateUnique(existing map[string]struct{}) (string, error) {
	for {
		code, err := Generate()
		if err != nil {
			return "", err
		}
		if _, ok := existing[code]; !ok {
			return code, nil
		}
	}
}

// Valid проверяет, что строка соответствует формату кода купона.
func Valid(code string) bool {
	return codePattern.MatchString(code)
}
