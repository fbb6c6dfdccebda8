// Copyright (c) 2025 BVK Chaitanya

// Package alert defines the webhook alert payloads, the per-service message
// templates attached to new listeners and the notification fan-out used by
// the webhook server.
package alert

import "strings"

// Services with built-in message templates.
const (
	ServiceTradingView = "TradingView"
	ServiceTelegram    = "Telegram"
	ServicePushover    = "Pushover"
	ServiceDiscord     = "Discord"
	ServiceSlack       = "Slack"
)

const tradingViewTemplate = `{
  "bot_id": "{{target}}",
  "ticker": "{{ticker}}",
  "action": "{{strategy.order.action}}",
  "order_size": "100%",
  "position_size": "{{strategy.position_size}}",
  "schema": "2",
  "timestamp": "{{time}}"
}`

var templateMap = map[string]string{
	ServiceTradingView: tradingViewTemplate,
	ServiceTelegram:    "🚨 *{{ticker}}* is *{{action}}* at `{{close}}`",
	ServicePushover:    "{{ticker}} is {{action}} at {{close}}",
	ServiceDiscord:     "**{{ticker}}** is **{{action}}** at `{{close}}`",
	ServiceSlack:       ":rotating_light: *{{ticker}}* is *{{action}}* at `{{close}}`",
}

// Template returns the default webhook message template for a service.
// Unknown services get a generic alert template.
func Template(service string) string {
	if t, ok := templateMap[service]; ok {
		return t
	}
	return "Alert: {{ticker}} is {{action}}"
}

// Render substitutes the {{target}} placeholder. All other placeholders are
// filled in by the alerting service, not by us.
func Render(template, target string) string {
	return strings.ReplaceAll(template, "{{target}}", target)
}
