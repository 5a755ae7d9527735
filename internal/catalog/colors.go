package catalog

import (
	"encoding/json"
	"errors"
	"strings"
)

// Colors accepte en JSON soit une liste, soit une chaîne "rouge, blanc".
type Colors []string

func (c *Colors) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*c = NormalizeColors(list)
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.New("colors: liste ou chaîne attendue")
	}
	*c = ParseColors(raw)
	return nil
}

// ParseColors découpe une chaîne séparée par des virgules.
func ParseColors(raw string) Colors {
	return NormalizeColors(strings.Split(raw, ","))
}

// NormalizeColors met en minuscules, retire les vides et les doublons en gardant l'ordre.
func NormalizeColors(in []string) Colors {
	out := Colors{}
	seen := make(map[string]bool, len(in))
	for _, c := range in {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
