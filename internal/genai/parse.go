package genai

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON в ответе модели не удалось найти JSON.
var ErrNoJSON = errors.New("no JSON found in model response")

var (
	fenceRe  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)
	arrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
)

// ParseModelJSON разбирает JSON из ответа модели. Модель не всегда отвечает
// чистым JSON, поэтому разбор идёт в три шага: прямой парсинг, затем
// содержимое markdown-ограждения, затем первый блок {...} или [...] в тексте.
func ParseModelJSON(text string, out any) error {
	trimmed := strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(trimmed), out); err == nil {
		return nil
	}

	if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(m[1]), out); err == nil {
			return nil
		}
	}

	if m := objectRe.FindString(trimmed); m != "" {
		if err := json.Unmarshal([]byte(m), out); err == nil {
			return nil
		}
	}
	if m := arrayRe.FindString(trimmed); m != "" {
		if err := json.Unmarshal([]byte(m), out); err == nil {
			return nil
		}
	}

	return ErrNoJSON
}
