package chat

// ExtractReply walks a decoded JSON response and returns the first reply text
// it recognizes. Supported envelopes are outputs[0] (conversations API) and
// choices[0].message (chat completions API). Content may be a string, a list
// whose first element is recursed into, or an object carrying text or content.
func ExtractReply(body any) (string, bool) {
	if m, ok := body.(map[string]any); ok {
		if outputs, ok := m["outputs"].([]any); ok {
			if len(outputs) == 0 {
				return "", false
			}
			return ExtractReply(outputs[0])
		}
		if choices, ok := m["choices"].([]any); ok {
			if len(choices) == 0 {
				return "", false
			}
			if choice, ok := choices[0].(map[string]any); ok {
				if msg, ok := choice["message"]; ok {
					return ExtractReply(msg)
				}
			}
			return "", false
		}
	}
	return matchContent(body)
}

func matchContent(v any) (string, bool) {
	switch c := v.(type) {
	case string:
		return c, true
	case []any:
		if len(c) == 0 {
			return "", false
		}
		return matchContent(c[0])
	case map[string]any:
		if text, ok := c["text"].(string); ok {
			return text, true
		}
		if content, ok := c["content"]; ok {
			return matchContent(content)
		}
	}
	return "", false
}
