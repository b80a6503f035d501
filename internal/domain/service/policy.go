package service

import (
	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"go.uber.org/zap"
)

// Decision is the outcome of the response-mode policy for one inbound
// plain-message event.
type Decision struct {
	Admit  bool
	Reason string
}

// ResponsePolicy decides, per inbound plain message, whether the reply
// pipeline runs. The explicit /ask-ai command path bypasses it.
type ResponsePolicy struct {
	logger *zap.Logger
}

// NewResponsePolicy creates the policy service.
func NewResponsePolicy(logger *zap.Logger) *ResponsePolicy {
	return &ResponsePolicy{logger: logger}
}

// Decide applies the deny rules in order; the first match wins.
//
//  1. channel mode "specific" with a non-empty allow list that does not
//     contain the event's channel → deny
//  2. slash mode "required" → deny (only /ask-ai may respond)
//  3. slash mode "activated" and the channel is not activated → deny
//  4. otherwise → admit
func (p *ResponsePolicy) Decide(settings *entity.GuildSettings, channelID string) Decision {
	if !settings.IsChannelAllowed(channelID) {
		return Decision{Admit: false, Reason: "channel not in allow list"}
	}

	switch settings.SlashMode {
	case entity.SlashModeRequired:
		return Decision{Admit: false, Reason: "slash command required"}
	case entity.SlashModeActivated:
		if !settings.IsChannelActivated(channelID) {
			return Decision{Admit: false, Reason: "channel not activated"}
		}
	}

	return Decision{Admit: true}
}
