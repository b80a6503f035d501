package models

import "time"

// GuildSettingsModel 数据库设置模型
// AllowedChannels/ActivatedChannels 以 JSON 数组编码存储
type GuildSettingsModel struct {
	GuildID           string `gorm:"primaryKey;size:64"`
	Prefix            string `gorm:"size:16"`
	ResponseLength    string `gorm:"size:16;not null"`
	Personality       string `gorm:"size:16;not null"`
	CodeFormatting    bool
	ChannelMode       string `gorm:"size:16;not null"`
	AllowedChannels   string `gorm:"type:text"`
	SlashMode         string `gorm:"size:16;not null"`
	ActivatedChannels string `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName 指定表名
func (GuildSettingsModel) TableName() string {
	return "guild_settings"
}
