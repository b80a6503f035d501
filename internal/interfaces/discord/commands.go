package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/chatbridge/chatbridge/internal/application/usecase"
	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/pkg/safego"
	"go.uber.org/zap"
)

// commandDefinitions 斜杠命令定义, 启动时整体覆盖注册
var commandDefinitions = []*discordgo.ApplicationCommand{
	{
		Name:        "ask-ai",
		Description: "Ask the AI assistant a question",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "prompt",
				Description: "What do you want to ask?",
				Required:    true,
			},
		},
	},
	{
		Name:        "activate-channel",
		Description: "Let the bot reply automatically in this channel",
	},
	{
		Name:        "deactivate-channel",
		Description: "Stop automatic replies in this channel",
	},
	{
		Name:        "set-mode",
		Description: "Set the slash command mode for this server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "How the bot decides when to reply",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "disabled", Value: string(entity.SlashModeDisabled)},
					{Name: "enabled", Value: string(entity.SlashModeEnabled)},
					{Name: "required", Value: string(entity.SlashModeRequired)},
					{Name: "activated", Value: string(entity.SlashModeActivated)},
				},
			},
		},
	},
	{
		Name:        "join-voice",
		Description: "Join your current voice channel",
	},
	{
		Name:        "leave-voice",
		Description: "Leave the voice channel",
	},
}

// registerCommands 覆盖注册全局斜杠命令
func (a *Adapter) registerCommands() error {
	_, err := a.session.ApplicationCommandBulkOverwrite(a.session.State.User.ID, "", commandDefinitions)
	return err
}

// onInteractionCreate 分发斜杠命令
func (a *Adapter) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	safego.Go(a.logger, "command-"+name, func() {
		switch name {
		case "ask-ai":
			a.handleAsk(i)
		case "activate-channel":
			a.handleActivateChannel(i)
		case "deactivate-channel":
			a.handleDeactivateChannel(i)
		case "set-mode":
			a.handleSetMode(i)
		case "join-voice":
			a.handleJoinVoice(i)
		case "leave-voice":
			a.handleLeaveVoice(i)
		}
	})
}

// interactionUser 取触发交互的用户 (guild 内在 Member, 私聊在 User)
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// handleAsk 显式提问命令: 绕过响应策略, 始终走完整流水线
// 先 defer 占位, 结果以编辑 + 追加的方式投递; 失败也编辑占位回复,
// 绝不对同一交互发两次应答
func (a *Adapter) handleAsk(i *discordgo.InteractionCreate) {
	prompt := i.ApplicationCommandData().Options[0].StringValue()
	user := interactionUser(i)

	err := a.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		a.logger.Error("Failed to defer interaction", zap.Error(err))
		return
	}

	reply, err := a.reply.HandleAsk(context.Background(), &usecase.IncomingEvent{
		ChannelID: i.ChannelID,
		UserID:    user.ID,
		GuildID:   i.GuildID,
		Text:      prompt,
	})
	if err != nil || reply == nil {
		a.logger.Error("Ask pipeline failed", zap.Error(err))
		a.editDeferred(i, "Sorry, something went wrong handling your question. Please try again later.")
		return
	}

	chunks := ChunkMessage(reply.Text)
	a.editDeferred(i, chunks[0])
	for _, chunk := range chunks[1:] {
		if _, err := a.session.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: chunk,
		}); err != nil {
			a.logger.Error("Failed to send follow-up chunk", zap.Error(err))
			return
		}
	}
}

// editDeferred 编辑已 defer 的占位回复
func (a *Adapter) editDeferred(i *discordgo.InteractionCreate, content string) {
	_, err := a.session.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	if err != nil {
		a.logger.Error("Failed to edit deferred response", zap.Error(err))
	}
}

// respondEphemeral 发送仅发起者可见的应答
func (a *Adapter) respondEphemeral(i *discordgo.InteractionCreate, content string) {
	err := a.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		a.logger.Error("Failed to respond to interaction", zap.Error(err))
	}
}

// handleActivateChannel 把当前频道加入激活集合 (幂等)
func (a *Adapter) handleActivateChannel(i *discordgo.InteractionCreate) {
	if err := a.settings.ActivateChannel(context.Background(), i.GuildID, i.ChannelID); err != nil {
		a.logger.Error("Failed to activate channel", zap.Error(err))
		a.respondEphemeral(i, "Could not activate this channel. Please try again later.")
		return
	}
	a.respondEphemeral(i, "This channel is now activated. I will reply to messages here.")
}

// handleDeactivateChannel 把当前频道移出激活集合 (幂等)
func (a *Adapter) handleDeactivateChannel(i *discordgo.InteractionCreate) {
	if err := a.settings.DeactivateChannel(context.Background(), i.GuildID, i.ChannelID); err != nil {
		a.logger.Error("Failed to deactivate channel", zap.Error(err))
		a.respondEphemeral(i, "Could not deactivate this channel. Please try again later.")
		return
	}
	a.respondEphemeral(i, "This channel is deactivated. I will no longer reply to messages here.")
}

// handleSetMode 持久化斜杠命令模式并回显模式说明
func (a *Adapter) handleSetMode(i *discordgo.InteractionCreate) {
	mode := i.ApplicationCommandData().Options[0].StringValue()

	description, err := a.settings.SetMode(context.Background(), i.GuildID, mode)
	if err != nil {
		a.logger.Error("Failed to set mode", zap.String("mode", mode), zap.Error(err))
		a.respondEphemeral(i, "Could not update the mode. Please try again later.")
		return
	}
	a.respondEphemeral(i, description)
}

// handleJoinVoice 加入发起者所在的语音频道
func (a *Adapter) handleJoinVoice(i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		a.respondEphemeral(i, "Voice channels only exist in servers.")
		return
	}

	channelID := a.invokerVoiceChannel(i.GuildID, interactionUser(i).ID)
	if channelID == "" {
		a.respondEphemeral(i, "Join a voice channel first, then use /join-voice.")
		return
	}

	dial := func(guildID, chID string) (*discordgo.VoiceConnection, error) {
		return a.session.ChannelVoiceJoin(guildID, chID, false, true)
	}
	if err := a.voice.Join(dial, i.GuildID, channelID); err != nil {
		a.respondEphemeral(i, "Could not join the voice channel: "+err.Error())
		return
	}
	a.respondEphemeral(i, "Joined your voice channel.")
}

// handleLeaveVoice 离开语音频道
func (a *Adapter) handleLeaveVoice(i *discordgo.InteractionCreate) {
	if err := a.voice.Leave(i.GuildID); err != nil {
		a.respondEphemeral(i, "I'm not in a voice channel here.")
		return
	}
	a.respondEphemeral(i, "Left the voice channel.")
}

// invokerVoiceChannel 从 guild 语音状态里找发起者所在的频道
func (a *Adapter) invokerVoiceChannel(guildID, userID string) string {
	guild, err := a.session.State.Guild(guildID)
	if err != nil {
		return ""
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID
		}
	}
	return ""
}
