package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Модель отвечает прозой, внутри которой закопан JSON. Контракт извлечения:
// найден документ - парсим строго, не найден или не парсится - типизированная
// ошибка, никаких догадок по частичным совпадениям.
var (
	ErrNoJSON        = errors.New("llm: no JSON found in completion")
	ErrMalformedJSON = errors.New("llm: malformed JSON in completion")
)

var (
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	arrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

// ExtractObject находит первый {...} в тексте и разбирает его в dest.
func ExtractObject(text string, dest interface{}) error {
	return extract(objectPattern, text, dest)
}

// ExtractArray находит первый [...] в тексте и разбирает его в dest.
func ExtractArray(text string, dest interface{}) error {
	return extract(arrayPattern, text, dest)
}

func extract(pattern *regexp.Regexp, text string, dest interface{}) error {
	match := pattern.FindString(text)
	if match == "" {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(match), dest); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return nil
}
