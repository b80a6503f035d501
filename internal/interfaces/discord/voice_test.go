package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func fakeDial(guildID, channelID string) (*discordgo.VoiceConnection, error) {
	return &discordgo.VoiceConnection{GuildID: guildID, ChannelID: channelID}, nil
}

func TestVoiceRegistry_JoinOncePerGuild(t *testing.T) {
	r := NewVoiceRegistry(testLogger())

	if err := r.Join(fakeDial, "G1", "voice-1"); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if !r.Connected("G1") {
		t.Error("G1 should be connected")
	}

	if err := r.Join(fakeDial, "G1", "voice-2"); err == nil {
		t.Error("second join for the same guild should be refused")
	}

	// other guilds are independent
	if err := r.Join(fakeDial, "G2", "voice-1"); err != nil {
		t.Errorf("join for another guild failed: %v", err)
	}
}

func TestVoiceRegistry_JoinFailureLeavesNoEntry(t *testing.T) {
	r := NewVoiceRegistry(testLogger())

	failDial := func(guildID, channelID string) (*discordgo.VoiceConnection, error) {
		return nil, errors.New("gateway timeout")
	}
	if err := r.Join(failDial, "G1", "voice-1"); err == nil {
		t.Fatal("expected dial error")
	}
	if r.Connected("G1") {
		t.Error("failed join must not register a connection")
	}

	// a later join may retry
	if err := r.Join(fakeDial, "G1", "voice-1"); err != nil {
		t.Errorf("retry after failure should succeed: %v", err)
	}
}

func TestVoiceRegistry_LeaveUnknownGuild(t *testing.T) {
	r := NewVoiceRegistry(testLogger())

	if err := r.Leave("G1"); err == nil {
		t.Error("leave without a connection should report not-found")
	}
}

func TestVoiceRegistry_DropIsSelfHealing(t *testing.T) {
	r := NewVoiceRegistry(testLogger())

	if err := r.Join(fakeDial, "G1", "voice-1"); err != nil {
		t.Fatal(err)
	}

	r.Drop("G1")
	if r.Connected("G1") {
		t.Error("dropped guild should no longer be connected")
	}

	// dropping again is harmless
	r.Drop("G1")

	if err := r.Join(fakeDial, "G1", "voice-1"); err != nil {
		t.Errorf("rejoin after drop should succeed: %v", err)
	}
}
