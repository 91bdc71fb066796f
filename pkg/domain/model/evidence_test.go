package model_test

import (
	"testing"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestNewSourceBreakdown(t *testing.T) {
	t.Run("counts each channel", func(t *testing.T) {
		evidence := []model.Evidence{
			{Title: "a", Channel: types.ChannelFile},
			{Title: "b", Channel: types.ChannelFile},
			{Title: "c", Channel: types.ChannelWeb},
			{Title: "d", Channel: types.ChannelLive},
			{Title: "e", Channel: types.ChannelLive},
			{Title: "f", Channel: types.ChannelLive},
		}

		b := model.NewSourceBreakdown(evidence)
		gt.Value(t, b).Equal(model.SourceBreakdown{Files: 2, Web: 1, Live: 3})
		gt.Value(t, b.Total()).Equal(len(evidence))
	})

	t.Run("empty evidence yields zero breakdown", func(t *testing.T) {
		b := model.NewSourceBreakdown(nil)
		gt.Value(t, b).Equal(model.SourceBreakdown{})
		gt.Value(t, b.Total()).Equal(0)
	})
}

func TestNewFeedEntryID(t *testing.T) {
	id1 := model.NewFeedEntryID("https://example.com/article/1")
	id2 := model.NewFeedEntryID("https://example.com/article/1")
	id3 := model.NewFeedEntryID("https://example.com/article/2")

	gt.Value(t, id1).Equal(id2)
	gt.Value(t, id1).NotEqual(id3)
	gt.Value(t, len(id1)).Equal(32)
}

func TestNewReportID(t *testing.T) {
	id := model.NewReportID()
	gt.Value(t, len(id)).Equal(36)
	gt.Value(t, id).NotEqual(model.NewReportID())
}

func TestUser_CanAfford(t *testing.T) {
	u := &model.User{ID: "u1", Credits: 1}
	gt.Bool(t, u.CanAfford(1)).True()
	gt.Bool(t, u.CanAfford(2)).False()
}
