package session

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeData binds a session's free-form data map onto a typed struct,
// honoring `json` field tags so the same tags work for wire payloads and
// session data.
func DecodeData(data map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("failed to decode session data: %w", err)
	}
	return nil
}
