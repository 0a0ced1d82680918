// Package telegram holds transport-level building blocks for the bot:
// update poller construction and the global middleware chain.
package telegram

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "churchbot/core/config"
)

// Defaults applied when the config leaves poller settings empty.
const (
	defaultLongPollTimeout = 10 * time.Second
	defaultWebhookListen   = "0.0.0.0"
)

// WebhookOptions declares webhook listener settings.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions configures BuildPoller.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                WebhookOptions
}

// BuildPoller returns a Telebot poller based on provided options.
func BuildPoller(opts PollerOptions) tele.Poller {
	runMode := strings.ToLower(strings.TrimSpace(opts.RunMode))
	if runMode == coreconfig.RunModeWebhook {
		listen := opts.Webhook.Listen
		if listen == "" {
			listen = defaultWebhookListen
		}
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", listen, opts.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	}

	timeout := defaultLongPollTimeout
	if opts.LongPollTimeoutSeconds > 0 {
		timeout = time.Duration(opts.LongPollTimeoutSeconds) * time.Second
	}
	return &tele.LongPoller{Timeout: timeout}
}
