package config

import (
	"errors"

	"github.com/tidwall/gjson"
)

// parseJSON decodes a JSON rules config.
func parseJSON(data []byte) (Config, error) {
	if !gjson.ValidBytes(data) {
		return Config{}, errors.New("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	cfg := Config{
		UnitBytes: root.Get("unit_bytes").Int(),
	}

	root.Get("rules").ForEach(func(_, r gjson.Result) bool {
		rc := RuleConfig{
			Threshold: r.Get("threshold").Uint(),
			Patterns:  stringList(r.Get("patterns")),
			Features:  stringList(r.Get("features")),
		}
		cfg.Rules = append(cfg.Rules, rc)
		return true
	})
	return cfg, nil
}

// stringList converts a gjson array into a string slice.
func stringList(res gjson.Result) []string {
	if !res.IsArray() {
		return nil
	}
	var out []string
	res.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}
