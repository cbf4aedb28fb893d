// Package extract pulls JSON values out of free-form LLM responses. Nothing in
// this package returns an error: malformed input degrades to an empty or
// partial result and the caller decides whether that is a failure.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fenceRe         = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*[ \t]*\r?\n?(.*?)```")
	directArrayRe   = regexp.MustCompile(`(?s)^\s*(\[.*\])\s*$`)
	embeddedArrayRe = regexp.MustCompile(`(?s)(\[\s*\{.*\}\s*\])`)
	objectRunRe     = regexp.MustCompile(`(?s)(\{.*\})`)
	adjacentObjRe   = regexp.MustCompile(`\}\s*\{`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	controlRe       = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	lineBreakRe     = regexp.MustCompile(`[\r\n\t]+`)
)

var quoteReplacer = strings.NewReplacer(
	"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u2033", `"`,
	"\u2018", "'", "\u2019", "'",
	"\u00a0", " ",
)

// JSONArray extracts an array of objects from text. Elements that are not
// objects are dropped. It never returns nil.
func JSONArray(text string) []map[string]any {
	text = prepare(text)
	out := []map[string]any{}
	if text == "" {
		return out
	}

	for _, candidate := range arrayCandidates(text) {
		if objs, ok := parseObjects(candidate, true); ok && len(objs) > 0 {
			return objs
		}
	}

	for _, block := range topLevelObjects(text) {
		if obj := parseObject(block); obj != nil {
			out = append(out, obj)
		}
	}
	return out
}

// JSONObject extracts a single object from text, or nil when none parses. If
// the text holds an array, its first object is returned.
func JSONObject(text string) map[string]any {
	text = prepare(text)
	if text == "" {
		return nil
	}

	if m := objectRunRe.FindString(text); m != "" {
		if obj := parseObject(m); obj != nil {
			return obj
		}
	}
	for _, candidate := range arrayCandidates(text) {
		if objs, ok := parseObjects(candidate, false); ok && len(objs) > 0 {
			return objs[0]
		}
	}
	for _, block := range topLevelObjects(text) {
		if obj := parseObject(block); obj != nil {
			return obj
		}
	}
	return nil
}

// prepare trims the byte-order mark and unwraps markdown code fences.
func prepare(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.TrimSpace(text)

	for _, m := range fenceRe.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(m[1])
		if strings.ContainsAny(body, "[{") {
			return body
		}
	}

	// A response cut off before its closing fence.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl >= 0 && !strings.ContainsAny(text[:nl], "[{") {
			text = text[nl+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

// arrayCandidates lists substrings that may hold the array, most specific
// first.
func arrayCandidates(text string) []string {
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		for _, existing := range out {
			if existing == s {
				return
			}
		}
		out = append(out, s)
	}

	if m := directArrayRe.FindStringSubmatch(text); m != nil {
		add(m[1])
	}
	if m := embeddedArrayRe.FindStringSubmatch(text); m != nil {
		add(m[1])
	}
	if m := objectRunRe.FindString(text); m != "" {
		add("[" + adjacentObjRe.ReplaceAllString(m, "},{") + "]")
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		add(text[start : end+1])
	}
	return out
}

// parseObjects decodes s as an array (or a single object) and returns its
// object elements. When unwrap is set, an object with a single key holding an
// array of objects (e.g. {"companies": [...]}) yields that array.
func parseObjects(s string, unwrap bool) ([]map[string]any, bool) {
	v, ok := decode(s)
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case []any:
		return objectsOf(t), true
	case map[string]any:
		if unwrap && len(t) == 1 {
			for _, inner := range t {
				if arr, isArr := inner.([]any); isArr {
					if objs := objectsOf(arr); len(objs) > 0 {
						return objs, true
					}
				}
			}
		}
		return []map[string]any{t}, true
	default:
		return nil, false
	}
}

func parseObject(s string) map[string]any {
	v, ok := decode(s)
	if !ok {
		return nil
	}
	obj, _ := v.(map[string]any)
	return obj
}

// decode tries the sanitized text, then again with typographic quotes
// normalized.
func decode(s string) (any, bool) {
	clean := sanitize(s)
	var v any
	if err := json.Unmarshal([]byte(clean), &v); err == nil {
		return v, true
	}
	requoted := sanitize(quoteReplacer.Replace(s))
	if requoted == clean {
		return nil, false
	}
	if err := json.Unmarshal([]byte(requoted), &v); err == nil {
		return v, true
	}
	return nil, false
}

func sanitize(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = controlRe.ReplaceAllString(s, "")
	s = lineBreakRe.ReplaceAllString(s, " ")
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

func objectsOf(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if obj, ok := el.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// topLevelObjects returns every balanced {...} block at nesting depth zero,
// skipping braces inside string literals.
func topLevelObjects(text string) []string {
	var (
		out      []string
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				out = append(out, text[start:i+1])
				start = -1
			}
		}
	}
	return out
}
