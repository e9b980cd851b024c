package tools

import (
	"context"
	"fmt"
)

// talkToUser passes a message through for display. The agent treats a
// talk_to_user call as the end of its turn.
func talkToUser(ctx context.Context, env *Env, params map[string]any) (string, error) {
	message, ok := stringParam(params, "message")
	if !ok {
		return "", fmt.Errorf("talk_to_user: missing message parameter")
	}
	return message, nil
}
