// Package relay holds the wire-level types shared between the query,
// render and dispatch layers.
package relay

import "strings"

// Platform identifies a chat-webhook flavor. Each platform has its own
// payload envelope; delivery is always a JSON POST to the target URL.
type Platform string

const (
	PlatformTeams      Platform = "teams"
	PlatformFeishu     Platform = "feishu"
	PlatformSlack      Platform = "slack"
	PlatformWeChatWork Platform = "wechatwork"
)

// ParsePlatform normalizes a configured platform name.
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformTeams:
		return PlatformTeams, true
	case PlatformFeishu:
		return PlatformFeishu, true
	case PlatformSlack:
		return PlatformSlack, true
	case PlatformWeChatWork:
		return PlatformWeChatWork, true
	}
	return "", false
}

// WebhookTarget is one configured notification endpoint. Targets are
// independent: one platform's failure never blocks another's delivery.
type WebhookTarget struct {
	URL      string
	Platform Platform
}

// QuerySetting is one saved tracker search expression.
type QuerySetting struct {
	Query string
}
