package entity

// DMGuildID 私聊消息没有 guild, 统一用该哨兵值作为设置行的标识
const DMGuildID = "DM"

// ResponseLength 回复长度档位
type ResponseLength string

const (
	LengthConcise  ResponseLength = "concise"
	LengthMedium   ResponseLength = "medium"
	LengthDetailed ResponseLength = "detailed"
)

// Personality 机器人人格
type Personality string

const (
	PersonalityHelpful   Personality = "helpful"
	PersonalityFriendly  Personality = "friendly"
	PersonalityTechnical Personality = "technical"
	PersonalityCreative  Personality = "creative"
)

// ChannelMode 频道限制模式
type ChannelMode string

const (
	ChannelModeAll      ChannelMode = "all"
	ChannelModeSpecific ChannelMode = "specific"
)

// SlashMode 斜杠命令模式, 每个 guild 一个状态机
// 状态只通过 set-mode 操作迁移, 初始为 disabled, 无终止态
type SlashMode string

const (
	SlashModeDisabled  SlashMode = "disabled"
	SlashModeEnabled   SlashMode = "enabled"
	SlashModeRequired  SlashMode = "required"
	SlashModeActivated SlashMode = "activated"
)

// ParseSlashMode 解析模式字符串
func ParseSlashMode(s string) (SlashMode, error) {
	switch SlashMode(s) {
	case SlashModeDisabled, SlashModeEnabled, SlashModeRequired, SlashModeActivated:
		return SlashMode(s), nil
	}
	return "", ErrInvalidSlashMode
}

// Description 返回给操作者看的模式效果说明
func (m SlashMode) Description() string {
	switch m {
	case SlashModeDisabled:
		return "Slash command mode disabled. The bot replies to plain messages as before."
	case SlashModeEnabled:
		return "Slash command mode enabled. The bot replies to plain messages and to /ask-ai."
	case SlashModeRequired:
		return "Slash command mode required. The bot only replies to /ask-ai, never to plain messages."
	case SlashModeActivated:
		return "Slash command mode activated. The bot replies to plain messages only in activated channels (/activate-channel)."
	default:
		return "Unknown mode."
	}
}

// GuildSettings 每个 guild 一行的机器人设置
// 首次接触时用默认值懒创建, 只通过显式设置更新修改, 正常运行中从不删除
type GuildSettings struct {
	GuildID           string
	Prefix            string
	ResponseLength    ResponseLength
	Personality       Personality
	CodeFormatting    bool
	ChannelMode       ChannelMode
	AllowedChannels   []string
	SlashMode         SlashMode
	ActivatedChannels []string
}

// DefaultGuildSettings 返回文档化的默认设置
func DefaultGuildSettings(guildID string) *GuildSettings {
	return &GuildSettings{
		GuildID:        guildID,
		Prefix:         "!",
		ResponseLength: LengthMedium,
		Personality:    PersonalityHelpful,
		CodeFormatting: true,
		ChannelMode:    ChannelModeAll,
		SlashMode:      SlashModeDisabled,
	}
}

// IsChannelAllowed 判断频道是否在允许列表内 (仅 specific 模式下受限)
func (s *GuildSettings) IsChannelAllowed(channelID string) bool {
	if s.ChannelMode != ChannelModeSpecific || len(s.AllowedChannels) == 0 {
		return true
	}
	for _, id := range s.AllowedChannels {
		if id == channelID {
			return true
		}
	}
	return false
}

// IsChannelActivated 判断频道是否已激活
func (s *GuildSettings) IsChannelActivated(channelID string) bool {
	for _, id := range s.ActivatedChannels {
		if id == channelID {
			return true
		}
	}
	return false
}

// ActivateChannel 将频道加入激活集合, 幂等; 返回是否发生变化
func (s *GuildSettings) ActivateChannel(channelID string) bool {
	if s.IsChannelActivated(channelID) {
		return false
	}
	s.ActivatedChannels = append(s.ActivatedChannels, channelID)
	return true
}

// DeactivateChannel 将频道移出激活集合, 幂等; 返回是否发生变化
func (s *GuildSettings) DeactivateChannel(channelID string) bool {
	for i, id := range s.ActivatedChannels {
		if id == channelID {
			s.ActivatedChannels = append(s.ActivatedChannels[:i], s.ActivatedChannels[i+1:]...)
			return true
		}
	}
	return false
}
