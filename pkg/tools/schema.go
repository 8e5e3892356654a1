package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// decodeArgs validates the raw argument map against the tool's schema and
// decodes it into a typed request struct. Validation failures list every
// offending field so the agent can correct its call.
func decodeArgs(schema map[string]interface{}, args map[string]interface{}, out interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(args),
	)
	if err != nil {
		return fmt.Errorf("argument validation failed: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
	}

	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to re-encode arguments: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}

	return nil
}
