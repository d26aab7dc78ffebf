package embed

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgolink/v3/lavalink"

	"github.com/arkete/shadebot/internal/music"
)

const (
	Color       = 0x1DB954
	ColorGreen  = 0x2ECC71
	ColorOrange = 0xE67E22
	ColorRed    = 0xE74C3C
	ColorIdle   = 0x808080
	ColorSearch = 0xFF6B6B
)

func FormatDuration(d lavalink.Duration) string {
	dur := time.Duration(d) * time.Millisecond
	minutes := int(dur.Minutes())
	seconds := int(dur.Seconds()) % 60
	if minutes >= 60 {
		hours := minutes / 60
		minutes = minutes % 60
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func NowPlaying(track lavalink.Track, q *music.GuildQueue, position lavalink.Duration) discord.Embed {
	q.Mu.Lock()
	repeatMode := q.Repeat
	volume := q.Volume
	queueLen := len(q.Queue)
	q.Mu.Unlock()

	builder := discord.NewEmbedBuilder().
		SetTitle("Now Playing").
		SetColor(Color)

	description := fmt.Sprintf("**[%s](%s)**", track.Info.Title, *track.Info.URI)
	if track.Info.Author != "" {
		description += fmt.Sprintf("\n%s", track.Info.Author)
	}

	if track.Info.IsStream {
		description += "\n\n`LIVE`"
	} else {
		posStr := FormatDuration(position)
		totalStr := FormatDuration(track.Info.Length)
		bar := progressBar(position, track.Info.Length, 16)
		description += fmt.Sprintf("\n\n%s\n`%s / %s`", bar, posStr, totalStr)
	}

	builder.SetDescription(description)

	if track.Info.ArtworkURL != nil && *track.Info.ArtworkURL != "" {
		builder.SetThumbnail(*track.Info.ArtworkURL)
	}

	builder.AddField("Volume", fmt.Sprintf("%d%%", volume), true)
	builder.AddField("Repeat", repeatMode.String(), true)
	builder.AddField("Queue", fmt.Sprintf("%d tracks", queueLen), true)

	return builder.Build()
}

func progressBar(position, total lavalink.Duration, length int) string {
	if total <= 0 {
		return ""
	}

	filled := int(float64(position) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}
	if filled < 0 {
		filled = 0
	}

	bar := ""
	for i := 0; i < length; i++ {
		if i == filled {
			bar += "●"
		} else if i < filled {
			bar += "▬"
		} else {
			bar += "━"
		}
	}
	return bar
}

func Queue(q *music.GuildQueue) discord.Embed {
	q.Mu.Lock()
	currentTrack := q.CurrentTrack
	queueLen := len(q.Queue)
	repeatMode := q.Repeat
	q.Mu.Unlock()

	builder := discord.NewEmbedBuilder().
		SetTitle("Queue").
		SetColor(Color)

	description := ""

	if currentTrack != nil {
		description += fmt.Sprintf("**Now playing:** [%s](%s) `%s`\n\n",
			currentTrack.Info.Title,
			*currentTrack.Info.URI,
			FormatDuration(currentTrack.Info.Length))
	} else {
		description += "Nothing is playing right now.\n\n"
	}

	if queueLen == 0 {
		description += "The queue is empty."
	} else {
		tracks := q.List(10)
		for i, track := range tracks {
			duration := FormatDuration(track.Info.Length)
			if track.Info.IsStream {
				duration = "LIVE"
			}
			description += fmt.Sprintf("`%d.` [%s](%s) `%s`\n",
				i+1, track.Info.Title, *track.Info.URI, duration)
		}
		if queueLen > 10 {
			description += fmt.Sprintf("\n... and %d more", queueLen-10)
		}
	}

	builder.SetDescription(description)
	builder.SetFooterText(fmt.Sprintf("%d tracks total | Repeat: %s", queueLen, repeatMode))

	return builder.Build()
}

func SearchResults(ps *music.PendingSearch) (discord.Embed, []discord.ContainerComponent) {
	tracks := ps.PageTracks()

	builder := discord.NewEmbedBuilder().
		SetTitle("Search Results").
		SetColor(ColorSearch).
		SetFooterText(fmt.Sprintf("Page %d/%d | %d results", ps.Page+1, ps.TotalPages(), len(ps.Tracks)))

	description := ""
	for i, track := range tracks {
		duration := FormatDuration(track.Info.Length)
		if track.Info.IsStream {
			duration = "LIVE"
		}
		description += fmt.Sprintf("`%d.` **%s**\n%s · `%s`\n\n",
			ps.Page*music.PageSize+i+1,
			track.Info.Title,
			track.Info.Author,
			duration)
	}
	builder.SetDescription(description)

	if len(tracks) > 0 {
		first := tracks[0]
		if first.Info.ArtworkURL != nil && *first.Info.ArtworkURL != "" {
			builder.SetThumbnail(*first.Info.ArtworkURL)
		}
	}

	var selectButtons []discord.InteractiveComponent
	for i := range tracks {
		selectButtons = append(selectButtons, discord.NewPrimaryButton(
			fmt.Sprintf("%d", ps.Page*music.PageSize+i+1),
			fmt.Sprintf("search_select:%d", i),
		))
	}

	prevDisabled := ps.Page == 0
	nextDisabled := ps.Page >= ps.TotalPages()-1

	navButtons := []discord.InteractiveComponent{
		discord.NewSecondaryButton("◀ Prev", "search_prev").WithDisabled(prevDisabled),
		discord.NewSecondaryButton("Next ▶", "search_next").WithDisabled(nextDisabled),
		discord.NewDangerButton("Cancel", "search_cancel"),
	}

	components := []discord.ContainerComponent{
		discord.NewActionRow(selectButtons...),
		discord.NewActionRow(navButtons...),
	}

	return builder.Build(), components
}

func NowPlayingButtons(q *music.GuildQueue) []discord.ContainerComponent {
	q.Mu.Lock()
	volume := q.Volume
	repeatMode := q.Repeat
	q.Mu.Unlock()

	var repeatLabel string
	switch repeatMode {
	case music.RepeatOne:
		repeatLabel = "🔂 Track"
	case music.RepeatAll:
		repeatLabel = "🔁 Queue"
	default:
		repeatLabel = "🔁 Off"
	}

	buttons := []discord.InteractiveComponent{
		discord.NewSecondaryButton("🔉 -10", "np_voldown").WithDisabled(volume <= 0),
		discord.NewSecondaryButton("⏭ Skip", "np_skip"),
		discord.NewSecondaryButton(repeatLabel, "np_repeat"),
		discord.NewSecondaryButton("🔊 +10", "np_volup").WithDisabled(volume >= 100),
		discord.NewSecondaryButton("📜 Queue", "np_queue"),
	}

	return []discord.ContainerComponent{
		discord.NewActionRow(buttons...),
	}
}

func Idle() discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("⏸ Idle").
		SetDescription("Nothing is playing right now.\nI'll leave the voice channel in 3 minutes.\n\nUse `/play` to queue something up.").
		SetColor(ColorIdle).
		Build()
}
