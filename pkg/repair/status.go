package repair

import (
	"strings"

	"github.com/helmcode/hotel-audit/pkg/model"
)

// NormalizeStatus maps a raw status to PASS, WARNING or FAIL, ignoring case
// and surrounding whitespace. Anything else becomes NOT_AUDITED with the
// original text kept in Raw. Already normalized values, including the
// {"level": ..., "raw": ...} form a Report serializes to, pass through unchanged.
func NormalizeStatus(raw any) model.Status {
	switch t := raw.(type) {
	case model.Status:
		return normalizeLevel(string(t.Level), t.Raw)
	case map[string]any:
		return normalizeLevel(asString(t["level"]), asString(t["raw"]))
	}
	text := asString(raw)
	return normalizeLevel(text, strings.TrimSpace(text))
}

// normalizeLevel maps level to a Status. keepRaw is what a NOT_AUDITED level
// carries as its raw text.
func normalizeLevel(level, keepRaw string) model.Status {
	text := strings.TrimSpace(level)
	switch model.Level(strings.ToUpper(text)) {
	case model.LevelPass:
		return model.Pass()
	case model.LevelWarning:
		return model.Warning()
	case model.LevelFail:
		return model.Fail()
	case model.LevelNotAudited:
		return model.Status{Level: model.LevelNotAudited, Raw: keepRaw}
	}
	return model.Status{Level: model.LevelNotAudited, Raw: text}
}
