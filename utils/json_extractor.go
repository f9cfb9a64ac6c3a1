package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// ErrNoJSONFound is returned when no valid JSON object/array is found in the input
var ErrNoJSONFound = errors.New("no valid JSON object or array found in response")

// ExtractJSON recovers JSON from LLM responses that wrap it in markdown
// fences, prose, or stray characters. Structured output mode usually makes
// this unnecessary, but smaller models still leak formatting around the
// payload.
func ExtractJSON(response string) (string, error) {
	if response == "" {
		return "", ErrNoJSONFound
	}

	// Markdown fences first, they are the most common wrapper
	cleaned := extractFromMarkdown(response)

	// Bracket matching finds the first complete object or array
	jsonStr := extractJSONByBrackets(cleaned)
	if jsonStr != "" && json.Valid([]byte(jsonStr)) {
		return jsonStr, nil
	}

	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}

	// Widest span between the outermost braces
	jsonStr = aggressiveExtract(response)
	if jsonStr != "" && json.Valid([]byte(jsonStr)) {
		return jsonStr, nil
	}

	// Last resort, strip control characters and surrounding garbage
	jsonStr = tryFixJSON(cleaned)
	if jsonStr != "" && json.Valid([]byte(jsonStr)) {
		return jsonStr, nil
	}

	log.Printf("JSON Extractor: No valid JSON found in %d char response", len(response))
	return "", fmt.Errorf("%w: response length=%d", ErrNoJSONFound, len(response))
}

// ExtractJSONTo extracts JSON from the response and unmarshals it into target
func ExtractJSONTo(response string, target interface{}) error {
	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal extracted JSON: %w", err)
	}
	return nil
}

// extractFromMarkdown removes markdown code block formatting
func extractFromMarkdown(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}

	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}

	// Inline code blocks embedded in prose
	re := regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	matches := re.FindStringSubmatch(s)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	return strings.TrimSpace(s)
}

// extractJSONByBrackets uses bracket matching to find complete JSON
func extractJSONByBrackets(s string) string {
	startObj := strings.Index(s, "{")
	startArr := strings.Index(s, "[")

	var start int
	var openChar, closeChar rune

	if startObj == -1 && startArr == -1 {
		return ""
	} else if startObj == -1 {
		start = startArr
		openChar = '['
		closeChar = ']'
	} else if startArr == -1 {
		start = startObj
		openChar = '{'
		closeChar = '}'
	} else if startObj < startArr {
		start = startObj
		openChar = '{'
		closeChar = '}'
	} else {
		start = startArr
		openChar = '['
		closeChar = ']'
	}

	depth := 0
	inString := false
	escaped := false
	end := -1

	for i := start; i < len(s); i++ {
		c := rune(s[i])

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				end = i + 1
				break
			}
		}
	}

	if end == -1 {
		return ""
	}

	return s[start:end]
}

// aggressiveExtract tries the span from the first { to the last } (then [ ])
func aggressiveExtract(s string) string {
	firstBrace := strings.Index(s, "{")
	lastBrace := strings.LastIndex(s, "}")

	if firstBrace != -1 && lastBrace != -1 && lastBrace > firstBrace {
		candidate := s[firstBrace : lastBrace+1]
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}

	firstBracket := strings.Index(s, "[")
	lastBracket := strings.LastIndex(s, "]")

	if firstBracket != -1 && lastBracket != -1 && lastBracket > firstBracket {
		candidate := s[firstBracket : lastBracket+1]
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}

	return ""
}

// tryFixJSON strips surrounding garbage and control characters
func tryFixJSON(s string) string {
	lastBrace := strings.LastIndex(s, "}")
	if lastBrace > 0 {
		s = s[:lastBrace+1]
	}

	firstBrace := strings.Index(s, "{")
	if firstBrace > 0 {
		s = s[firstBrace:]
	}

	var cleaned strings.Builder
	for _, r := range s {
		// Keep only printable ASCII and standard whitespace
		if r >= 32 && r < 127 || r == '\n' || r == '\r' || r == '\t' {
			cleaned.WriteRune(r)
		}
	}

	return cleaned.String()
}
