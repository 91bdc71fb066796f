package types_test

import (
	"testing"

	"github.com/briefwise/briefwise/pkg/domain/types"
)

func TestFeedID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.FeedID
		wantErr bool
	}{
		{"valid lowercase", "tech-news", false},
		{"valid single word", "markets", false},
		{"valid with numbers", "feed-123", false},
		{"empty", "", true},
		{"uppercase", "Tech-News", true},
		{"spaces", "tech news", true},
		{"underscore", "tech_news", true},
		{"starting with hyphen", "-tech", true},
		{"ending with hyphen", "tech-", true},
		{"double hyphen", "tech--news", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
