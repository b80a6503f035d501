package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/chatbridge/chatbridge/internal/application/usecase"
	"github.com/chatbridge/chatbridge/pkg/safego"
	"go.uber.org/zap"
)

// Config Discord 适配器配置
type Config struct {
	BotToken string
}

// Adapter Discord 网关适配器
// 每个入站事件在独立的 safego goroutine 里处理, 事件之间无顺序保证
type Adapter struct {
	config   *Config
	session  *discordgo.Session
	reply    *usecase.ReplyUseCase
	settings *usecase.SettingsUseCase
	usage    *usecase.UsageUseCase
	voice    *VoiceRegistry
	logger   *zap.Logger

	mu        sync.RWMutex
	connected bool
}

// NewAdapter 创建 Discord 适配器
func NewAdapter(
	cfg *Config,
	reply *usecase.ReplyUseCase,
	settings *usecase.SettingsUseCase,
	usage *usecase.UsageUseCase,
	logger *zap.Logger,
) (*Adapter, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("discord bot token is not configured")
	}

	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentMessageContent

	adapter := &Adapter{
		config:   cfg,
		session:  session,
		reply:    reply,
		settings: settings,
		usage:    usage,
		voice:    NewVoiceRegistry(logger),
		logger:   logger,
	}

	session.AddHandler(adapter.onReady)
	session.AddHandler(adapter.onMessageCreate)
	session.AddHandler(adapter.onInteractionCreate)
	session.AddHandler(adapter.onVoiceStateUpdate)

	return adapter, nil
}

// Start 打开网关连接并注册斜杠命令
func (a *Adapter) Start(ctx context.Context) error {
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}

	if err := a.registerCommands(); err != nil {
		a.logger.Error("Failed to register slash commands", zap.Error(err))
	}

	a.mu.Lock()
	a.connected = true
	a.mu.Unlock()

	return nil
}

// Stop 释放语音连接并关闭网关
func (a *Adapter) Stop(ctx context.Context) error {
	a.voice.ReleaseAll()

	a.mu.Lock()
	a.connected = false
	a.mu.Unlock()

	return a.session.Close()
}

// Connected 返回网关连接状态 (仪表盘查询用)
func (a *Adapter) Connected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.connected
}

// onReady 连接就绪, 上报服务器数
func (a *Adapter) onReady(s *discordgo.Session, r *discordgo.Ready) {
	a.logger.Info("Discord gateway ready",
		zap.String("username", r.User.Username),
		zap.Int("guilds", len(r.Guilds)),
	)
	a.usage.SetServerCount(context.Background(), int64(len(r.Guilds)))
}

// onMessageCreate 处理普通消息事件
func (a *Adapter) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}

	ev := &usecase.IncomingEvent{
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
		GuildID:   m.GuildID,
		Text:      m.Content,
		IsFromBot: m.Author.Bot,
	}

	safego.Go(a.logger, "message-pipeline", func() {
		reply, err := a.reply.HandlePlainMessage(context.Background(), ev)
		if err != nil {
			// StorageUnavailable 等: 不发回复, 只记日志
			a.logger.Error("Reply pipeline failed",
				zap.String("channel_id", ev.ChannelID),
				zap.Error(err),
			)
			return
		}
		if reply == nil {
			return
		}
		a.deliverReply(m, reply.Text)
	})
}

// deliverReply 分块投递回复: 首块回复原消息, 其余块追加发送
// 投递失败属于 TransportFailure: 记日志, 不重试
func (a *Adapter) deliverReply(m *discordgo.MessageCreate, text string) {
	chunks := ChunkMessage(text)
	for i, chunk := range chunks {
		var err error
		if i == 0 {
			_, err = a.session.ChannelMessageSendReply(m.ChannelID, chunk, m.Reference())
		} else {
			_, err = a.session.ChannelMessageSend(m.ChannelID, chunk)
		}
		if err != nil {
			a.logger.Error("Failed to deliver reply chunk",
				zap.String("channel_id", m.ChannelID),
				zap.Int("chunk", i),
				zap.Error(err),
			)
			return
		}
	}
}

// onVoiceStateUpdate 自身被外部断开语音时, 从注册表自愈移除
func (a *Adapter) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.UserID != s.State.User.ID {
		return
	}
	if v.ChannelID == "" {
		a.voice.Drop(v.GuildID)
	}
}
