// Package render maps an issue list to platform-specific webhook payloads.
// All renderers are pure: same issues, clock and language produce the same
// payload. Field and due-date formatting is shared (format.go); only the
// envelope differs per platform.
package render

import (
	"fmt"
	"time"

	"duewatch/internal/i18n"
	"duewatch/internal/relay"
	"duewatch/internal/tracker"
)

// Renderer produces the wire payload for one platform. Callers skip
// rendering entirely when the issue list is empty; an empty digest is a
// terminal success, not a notification.
type Renderer interface {
	Render(issues []tracker.Issue, now time.Time, lang i18n.Lang) any
}

// For returns the renderer for a platform.
func For(p relay.Platform) (Renderer, error) {
	switch p {
	case relay.PlatformTeams:
		return teamsRenderer{}, nil
	case relay.PlatformFeishu:
		return feishuRenderer{}, nil
	case relay.PlatformSlack:
		return slackRenderer{}, nil
	case relay.PlatformWeChatWork:
		return wechatWorkRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown webhook platform %q", p)
	}
}
