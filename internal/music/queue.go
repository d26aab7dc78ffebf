package music

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
)

// RepeatMode controls what happens when a track finishes.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatOne
	RepeatAll
)

func (r RepeatMode) String() string {
	switch r {
	case RepeatOne:
		return "track"
	case RepeatAll:
		return "queue"
	default:
		return "off"
	}
}

// DefaultVolume is the playback volume a fresh guild queue starts at.
const DefaultVolume = 50

// GuildQueue is the per-guild playback state: the pending tracks, the
// current track, repeat mode, volume and the bound text channel for
// notifications, plus the bookkeeping around the now-playing message and
// the idle timer. All fields are guarded by Mu; handlers run on SDK
// goroutines.
type GuildQueue struct {
	GuildID             snowflake.ID
	TextChannelID       snowflake.ID
	Queue               []lavalink.Track
	NowPlayingMessageID snowflake.ID
	NowPlayingChannelID snowflake.ID
	Repeat              RepeatMode
	CurrentTrack        *lavalink.Track
	Volume              int
	StopUpdateCh        chan struct{}
	IdleTimer           *time.Timer
	IdleMessageID       snowflake.ID
	IdleChannelID       snowflake.ID
	Mu                  sync.Mutex
}

func NewGuildQueue(guildID snowflake.ID) *GuildQueue {
	return &GuildQueue{
		GuildID: guildID,
		Volume:  DefaultVolume,
	}
}

// Add appends tracks to the end of the queue.
func (q *GuildQueue) Add(tracks ...lavalink.Track) {
	q.Mu.Lock()
	defer q.Mu.Unlock()
	q.Queue = append(q.Queue, tracks...)
}

// Next pops the track to play after the current one ends, honoring the
// repeat mode: RepeatOne replays the current track, RepeatAll re-enqueues
// it at the back. Returns nil when the queue ran dry.
func (q *GuildQueue) Next() *lavalink.Track {
	q.Mu.Lock()
	defer q.Mu.Unlock()

	if q.Repeat == RepeatOne && q.CurrentTrack != nil {
		return q.CurrentTrack
	}

	if q.Repeat == RepeatAll && q.CurrentTrack != nil {
		q.Queue = append(q.Queue, *q.CurrentTrack)
	}

	if len(q.Queue) == 0 {
		q.CurrentTrack = nil
		return nil
	}

	next := q.Queue[0]
	q.Queue = q.Queue[1:]
	q.CurrentTrack = &next
	return &next
}

// SetCurrentTrack records the track now playing.
func (q *GuildQueue) SetCurrentTrack(track *lavalink.Track) {
	q.Mu.Lock()
	defer q.Mu.Unlock()
	q.CurrentTrack = track
}

// Shuffle permutes the pending queue in place.
func (q *GuildQueue) Shuffle() {
	q.Mu.Lock()
	defer q.Mu.Unlock()

	for i := len(q.Queue) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		q.Queue[i], q.Queue[j] = q.Queue[j], q.Queue[i]
	}
}

// StopUpdateLoop signals the now-playing refresh goroutine to exit.
func (q *GuildQueue) StopUpdateLoop() {
	q.Mu.Lock()
	defer q.Mu.Unlock()
	if q.StopUpdateCh != nil {
		close(q.StopUpdateCh)
		q.StopUpdateCh = nil
	}
}

// CancelIdleTimer stops a pending auto-leave timer.
func (q *GuildQueue) CancelIdleTimer() {
	q.Mu.Lock()
	defer q.Mu.Unlock()
	if q.IdleTimer != nil {
		q.IdleTimer.Stop()
		q.IdleTimer = nil
	}
}

// Clear resets the queue to its idle state: pending tracks dropped,
// current track cleared, repeat off, timers and refresh loop stopped.
func (q *GuildQueue) Clear() {
	q.StopUpdateLoop()
	q.Mu.Lock()
	defer q.Mu.Unlock()
	if q.IdleTimer != nil {
		q.IdleTimer.Stop()
		q.IdleTimer = nil
	}
	q.Queue = nil
	q.CurrentTrack = nil
	q.Repeat = RepeatOff
	q.NowPlayingMessageID = 0
	q.NowPlayingChannelID = 0
	q.IdleMessageID = 0
	q.IdleChannelID = 0
}

// NextRepeat cycles off -> track -> queue -> off and returns the new mode.
func (q *GuildQueue) NextRepeat() RepeatMode {
	q.Mu.Lock()
	defer q.Mu.Unlock()
	switch q.Repeat {
	case RepeatOff:
		q.Repeat = RepeatOne
	case RepeatOne:
		q.Repeat = RepeatAll
	default:
		q.Repeat = RepeatOff
	}
	return q.Repeat
}

// Len is the number of pending tracks.
func (q *GuildQueue) Len() int {
	q.Mu.Lock()
	defer q.Mu.Unlock()
	return len(q.Queue)
}

// List copies up to max pending tracks from the front of the queue.
func (q *GuildQueue) List(max int) []lavalink.Track {
	q.Mu.Lock()
	defer q.Mu.Unlock()
	n := len(q.Queue)
	if n > max {
		n = max
	}
	out := make([]lavalink.Track, n)
	copy(out, q.Queue[:n])
	return out
}

// Move relocates the track at 1-based position from to position to,
// returning false when either position is out of range.
func (q *GuildQueue) Move(from, to int) (lavalink.Track, bool) {
	q.Mu.Lock()
	defer q.Mu.Unlock()

	if from < 1 || from > len(q.Queue) || to < 1 || to > len(q.Queue) {
		return lavalink.Track{}, false
	}

	fromIdx := from - 1
	toIdx := to - 1

	track := q.Queue[fromIdx]
	q.Queue = append(q.Queue[:fromIdx], q.Queue[fromIdx+1:]...)

	rebuilt := make([]lavalink.Track, 0, len(q.Queue)+1)
	rebuilt = append(rebuilt, q.Queue[:toIdx]...)
	rebuilt = append(rebuilt, track)
	rebuilt = append(rebuilt, q.Queue[toIdx:]...)
	q.Queue = rebuilt

	return track, true
}

// Remove deletes the track at 1-based position pos, returning false when
// the position is out of range.
func (q *GuildQueue) Remove(pos int) (lavalink.Track, bool) {
	q.Mu.Lock()
	defer q.Mu.Unlock()

	if pos < 1 || pos > len(q.Queue) {
		return lavalink.Track{}, false
	}

	idx := pos - 1
	track := q.Queue[idx]
	q.Queue = append(q.Queue[:idx], q.Queue[idx+1:]...)

	return track, true
}
