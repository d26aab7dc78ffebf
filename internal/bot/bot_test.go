package bot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/config"
	"github.com/arkete/shadebot/internal/music"
	"github.com/arkete/shadebot/internal/session"
)

func newTestBot(cfg *config.Config) *Bot {
	return &Bot{
		Cfg:            cfg,
		Session:        session.New(),
		Music:          music.NewManager(),
		Registry:       cog.NewRegistry(),
		healthInterval: 10 * time.Millisecond,
		noticeDelay:    time.Millisecond,
		autoplayDelay:  time.Millisecond,
		tasks:          make(map[string]context.CancelFunc),
	}
}

type fakeRegistrar struct {
	mu       sync.Mutex
	global   int
	guild    []snowflake.ID
	guildErr error
}

func (f *fakeRegistrar) SetGlobal([]discord.ApplicationCommandCreate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.global++
	return nil
}

func (f *fakeRegistrar) SetGuild(guildID snowflake.ID, _ []discord.ApplicationCommandCreate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.guildErr != nil {
		return f.guildErr
	}
	f.guild = append(f.guild, guildID)
	return nil
}

func TestSyncCommandsGuildOncePerProcess(t *testing.T) {
	guildID := snowflake.ID(42)
	b := newTestBot(&config.Config{GuildID: &guildID})
	reg := &fakeRegistrar{}
	b.registrar = reg

	b.syncCommands()
	b.syncCommands()

	assert.Equal(t, []snowflake.ID{42}, reg.guild)
	assert.Zero(t, reg.global)
	assert.True(t, b.Session.GuildSynced())
}

func TestSyncCommandsGuildRetriedAfterFailure(t *testing.T) {
	guildID := snowflake.ID(42)
	b := newTestBot(&config.Config{GuildID: &guildID})
	reg := &fakeRegistrar{guildErr: errors.New("rate limited")}
	b.registrar = reg

	b.syncCommands()
	assert.False(t, b.Session.GuildSynced(), "failed sync must not consume the one-time guard")

	reg.mu.Lock()
	reg.guildErr = nil
	reg.mu.Unlock()

	b.syncCommands()
	assert.True(t, b.Session.GuildSynced())
	assert.Equal(t, []snowflake.ID{42}, reg.guild)
}

func TestSyncCommandsGlobalEveryReady(t *testing.T) {
	b := newTestBot(&config.Config{SyncGlobal: true})
	reg := &fakeRegistrar{}
	b.registrar = reg

	b.syncCommands()
	b.syncCommands()

	assert.Equal(t, 2, reg.global)
	assert.Empty(t, reg.guild)
}

func TestSyncCommandsSkippedWithoutGuild(t *testing.T) {
	b := newTestBot(&config.Config{})
	reg := &fakeRegistrar{}
	b.registrar = reg

	b.syncCommands()

	assert.Zero(t, reg.global)
	assert.Empty(t, reg.guild)
	assert.False(t, b.Session.GuildSynced())
}

type fakePool struct {
	mu        sync.Mutex
	available bool
	connects  int
	err       error
}

func (f *fakePool) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakePool) Connect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.err != nil {
		return f.err
	}
	f.available = true
	return nil
}

func (f *fakePool) connectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects
}

func TestHealthCheckReconnectsAndStops(t *testing.T) {
	b := newTestBot(&config.Config{})
	pool := &fakePool{}
	b.pool = pool

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.healthCheckLoop(ctx)
		close(done)
	}()

	require.Eventually(t, pool.Available, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, pool.connectCount(), 1)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("health loop did not stop on cancel")
	}
}

func TestHealthCheckSurvivesRepeatedFailures(t *testing.T) {
	b := newTestBot(&config.Config{})
	pool := &fakePool{err: errors.New("connection refused")}
	b.pool = pool

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.healthCheckLoop(ctx)

	require.Eventually(t, func() bool {
		return pool.connectCount() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestHealthCheckIdleWhileNodesAvailable(t *testing.T) {
	b := newTestBot(&config.Config{})
	pool := &fakePool{available: true}
	b.pool = pool

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.healthCheckLoop(ctx)

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, pool.connectCount())
}

func TestStartupNoticeDeliveredOnce(t *testing.T) {
	b := newTestBot(&config.Config{})
	var deliveries atomic.Int32
	b.notifier = notifierFunc(func(context.Context) error {
		deliveries.Add(1)
		return nil
	})

	b.sendStartupNotice(context.Background())
	require.True(t, b.Session.NoticeSent())

	// a later ready event consults the guard before scheduling again
	if !b.Session.NoticeSent() {
		b.sendStartupNotice(context.Background())
	}

	assert.Equal(t, int32(1), deliveries.Load())
}

func TestStartupNoticeFailureLeavesGuardClear(t *testing.T) {
	b := newTestBot(&config.Config{})
	b.notifier = notifierFunc(func(context.Context) error {
		return errors.New("cannot send messages to this user")
	})

	b.sendStartupNotice(context.Background())

	assert.False(t, b.Session.NoticeSent(), "failed delivery must stay retryable")
}

func TestStartupNoticeCancelledDuringDelay(t *testing.T) {
	b := newTestBot(&config.Config{})
	b.noticeDelay = time.Hour
	var deliveries atomic.Int32
	b.notifier = notifierFunc(func(context.Context) error {
		deliveries.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b.sendStartupNotice(ctx)

	assert.Zero(t, deliveries.Load())
	assert.False(t, b.Session.NoticeSent())
}

func TestStartTaskDedupesByName(t *testing.T) {
	b := newTestBot(&config.Config{})
	var runs atomic.Int32

	fn := func(ctx context.Context) {
		runs.Add(1)
		<-ctx.Done()
	}

	b.startTask("loop", fn)
	b.startTask("loop", fn)

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	b.stopTasks()

	b.startTask("loop", fn)
	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)
	b.stopTasks()
}

func TestStripCommandPrefix(t *testing.T) {
	appID := snowflake.ID(99)

	cases := []struct {
		in      string
		want    string
		matched bool
	}{
		{"!ping", "ping", true},
		{">ping arg", "ping arg", true},
		{"<@99> ping", "ping", true},
		{"<@!99> ping", "ping", true},
		{"!  ", "", true},
		{"ping", "", false},
		{"<@100> ping", "", false},
	}
	for _, tc := range cases {
		got, ok := stripCommandPrefix(tc.in, appID)
		assert.Equal(t, tc.matched, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestGateOwnerAndCooldown(t *testing.T) {
	b := newTestBot(&config.Config{OwnerID: 7})
	noCooldown := func(snowflake.ID) error { return nil }

	var perm *cog.PermissionError
	err := b.gate(true, 8, noCooldown)
	require.Error(t, err)
	assert.True(t, errors.As(err, &perm))

	assert.NoError(t, b.gate(true, 7, noCooldown))

	cooldownHit := func(snowflake.ID) error {
		return &cog.CooldownError{RetryAfter: time.Second}
	}
	var cd *cog.CooldownError
	err = b.gate(false, 8, cooldownHit)
	require.Error(t, err)
	assert.True(t, errors.As(err, &cd))
}
