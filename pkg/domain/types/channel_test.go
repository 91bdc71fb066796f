package types_test

import (
	"testing"

	"github.com/briefwise/briefwise/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestChannel_IsValid(t *testing.T) {
	tests := []struct {
		name    string
		channel types.Channel
		want    bool
	}{
		{name: "file", channel: types.ChannelFile, want: true},
		{name: "web", channel: types.ChannelWeb, want: true},
		{name: "live", channel: types.ChannelLive, want: true},
		{name: "unknown", channel: types.Channel("rss"), want: false},
		{name: "empty", channel: types.Channel(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.channel.IsValid()).Equal(tt.want)
		})
	}
}

func TestParseChannel(t *testing.T) {
	t.Run("parses known channel", func(t *testing.T) {
		ch, err := types.ParseChannel("live")
		gt.NoError(t, err).Required()
		gt.Value(t, ch).Equal(types.ChannelLive)
	})

	t.Run("rejects unknown channel", func(t *testing.T) {
		_, err := types.ParseChannel("LIVE")
		gt.Value(t, err).NotNil()
	})
}

func TestAllChannels_Order(t *testing.T) {
	gt.Value(t, types.AllChannels()).Equal([]types.Channel{
		types.ChannelFile,
		types.ChannelWeb,
		types.ChannelLive,
	})
}
