package service

import "strings"

// ExtractFirstJSONObject devuelve el primer objeto {...} balanceado, ignorando
// llaves dentro de strings. Si una llave de apertura no cierra, prueba con la
// siguiente. Devuelve "" si no hay un objeto completo.
func ExtractFirstJSONObject(input string) string {
	for offset := 0; offset < len(input); {
		start := strings.IndexByte(input[offset:], '{')
		if start < 0 {
			return ""
		}
		start += offset
		if end := matchingBrace(input, start); end > 0 {
			return input[start : end+1]
		}
		offset = start + 1
	}
	return ""
}

// matchingBrace devuelve el indice de la llave que cierra input[start], o -1.
func matchingBrace(input string, start int) int {
	var inString, escaped bool
	depth := 0
	for i := start; i < len(input); i++ {
		ch := input[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
