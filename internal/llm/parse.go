package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrParseFailed marks model output that could not be decoded into a
// VerdictList. Callers match it with errors.Is and typically fall back to an
// empty verdict list instead of failing the whole request.
var ErrParseFailed = errors.New("verdict parse failed")

// ParseVerdicts decodes raw model output into a VerdictList.
//
// Models habitually wrap JSON in markdown fences or surround it with prose,
// so the parser first trims fences, then falls back to the outermost brace
// pair. Unknown labels normalize to "uncertain"; missing optional fields stay
// empty. Confidence is passed through untouched; scaling and clamping happen
// at merge time.
func ParseVerdicts(raw string) (*VerdictList, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("%w: no JSON object in output", ErrParseFailed)
	}

	var list VerdictList
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	for i := range list.Sentences {
		switch list.Sentences[i].Label {
		case "true", "false", "uncertain":
		default:
			list.Sentences[i].Label = "uncertain"
		}
	}

	return &list, nil
}

// extractJSON strips markdown code fences and prose around the outermost
// JSON object. Returns "" when no object is present.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
