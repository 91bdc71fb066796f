package types

import "fmt"

// Channel is the provenance category of a piece of evidence
type Channel string

const (
	ChannelFile Channel = "file"
	ChannelWeb  Channel = "web"
	ChannelLive Channel = "live"
)

// AllChannels returns all valid channels in display order
func AllChannels() []Channel {
	return []Channel{
		ChannelFile,
		ChannelWeb,
		ChannelLive,
	}
}

// IsValid checks if the channel is valid
func (c Channel) IsValid() bool {
	switch c {
	case ChannelFile,
		ChannelWeb,
		ChannelLive:
		return true
	default:
		return false
	}
}

// String returns the string representation of the channel
func (c Channel) String() string {
	return string(c)
}

// ParseChannel parses a string into a Channel
func ParseChannel(s string) (Channel, error) {
	ch := Channel(s)
	if !ch.IsValid() {
		return "", fmt.Errorf("invalid channel: %s", s)
	}
	return ch, nil
}
