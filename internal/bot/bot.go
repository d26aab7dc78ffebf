package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/config"
	"github.com/arkete/shadebot/internal/music"
	"github.com/arkete/shadebot/internal/session"
)

// Bot wires the platform client, the audio client and the cog framework
// together and owns the background tasks that keep them healthy.
type Bot struct {
	Cfg      *config.Config
	Client   bot.Client
	Lavalink disgolink.Client
	Session  *session.State
	Music    *music.Manager
	Registry *cog.Registry

	pool      nodeConnector
	registrar commandRegistrar
	notifier  ownerNotifier

	healthInterval time.Duration
	noticeDelay    time.Duration
	autoplayDelay  time.Duration

	loadedCogs []string

	taskMu sync.Mutex
	tasks  map[string]context.CancelFunc
	taskWG sync.WaitGroup
}

// New builds the platform client with the fixed intents and initial
// presence, the audio client with its track listeners, and the connect
// pool. Nothing touches the network until Start.
func New(cfg *config.Config, sess *session.State) (*Bot, error) {
	b := &Bot{
		Cfg:            cfg,
		Session:        sess,
		Music:          music.NewManager(),
		Registry:       cog.NewRegistry(),
		healthInterval: time.Minute,
		noticeDelay:    2 * time.Second,
		autoplayDelay:  10 * time.Second,
		tasks:          make(map[string]context.CancelFunc),
	}

	status, activity := sess.Presence()

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildVoiceStates,
				gateway.IntentGuildMessages,
				gateway.IntentDirectMessages,
				gateway.IntentMessageContent,
			),
			gateway.WithPresenceOpts(
				gateway.WithWatchingActivity(activity),
				gateway.WithOnlineStatus(status),
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagChannels, cache.FlagVoiceStates),
		),
		bot.WithEventListenerFunc(b.onReady),
		bot.WithEventListenerFunc(b.onGuildReady),
		bot.WithEventListenerFunc(b.onMessageCreate),
		bot.WithEventListenerFunc(b.onApplicationCommand),
		bot.WithEventListenerFunc(b.onComponentInteraction),
		bot.WithEventListenerFunc(b.onVoiceStateUpdate),
		bot.WithEventListenerFunc(b.onVoiceServerUpdate),
	)
	if err != nil {
		return nil, fmt.Errorf("build client: %w", err)
	}

	b.Client = client
	b.Lavalink = disgolink.New(client.ApplicationID(),
		disgolink.WithListenerFunc(b.onTrackStart),
		disgolink.WithListenerFunc(b.onTrackEnd),
		disgolink.WithListenerFunc(b.onTrackException),
		disgolink.WithListenerFunc(b.onTrackStuck),
	)

	b.pool = newLavalinkPool(b.Lavalink, cfg)
	b.registrar = &restRegistrar{client: client}
	b.notifier = notifierFunc(b.deliverStartupNotice)

	return b, nil
}

// Start connects the audio node, loads the cogs and opens the gateway. An
// unreachable audio node is logged and tolerated; music commands degrade
// until the health check brings a node back.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.pool.Connect(ctx); err != nil {
		slog.Error("audio node connect failed, continuing without audio", "error", err)
	}

	b.loadCogs()
	b.startTask("health-check", b.healthCheckLoop)

	return b.Client.OpenGateway(ctx)
}

func (b *Bot) loadCogs() {
	for _, c := range defaultCogs() {
		if err := c.Load(host{b}); err != nil {
			slog.Error("cog load failed", "cog", c.Name(), "error", err)
			continue
		}
		b.loadedCogs = append(b.loadedCogs, c.Name())
		slog.Info("cog loaded", "cog", c.Name())
	}
}

// Close tears the process down: background tasks first, then every active
// player, then the audio client, then the gateway. Each step is guarded so
// one failure cannot strand the rest.
func (b *Bot) Close(ctx context.Context) {
	slog.Info("shutting down")

	b.stopTasks()
	b.disconnectPlayers(ctx)

	if b.Lavalink != nil {
		b.Lavalink.Close()
		slog.Info("audio client closed")
	}
	if b.Client != nil {
		b.Client.Close(ctx)
	}

	slog.Info("shutdown complete")
}

func (b *Bot) disconnectPlayers(ctx context.Context) {
	for _, guildID := range b.Music.GuildIDs() {
		if q, ok := b.Music.ExistingQueue(guildID); ok {
			q.Clear()
		}

		if p := b.Lavalink.ExistingPlayer(guildID); p != nil {
			if err := p.Update(ctx, lavalink.WithNullTrack()); err != nil {
				slog.Warn("player stop failed", "guild", guildID, "error", err)
			}
			b.Lavalink.RemovePlayer(guildID)
		}

		if err := b.Client.UpdateVoiceState(ctx, guildID, nil, false, false); err != nil {
			slog.Warn("voice disconnect failed", "guild", guildID, "error", err)
		} else {
			slog.Info("player disconnected", "guild", guildID)
		}
	}
}

// startTask launches fn as a named background task. A task name can run
// only once at a time; stopTasks cancels and waits for all of them.
func (b *Bot) startTask(name string, fn func(ctx context.Context)) {
	b.taskMu.Lock()
	defer b.taskMu.Unlock()
	if _, running := b.tasks[name]; running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.tasks[name] = cancel
	b.taskWG.Add(1)

	go func() {
		defer b.taskWG.Done()
		defer func() {
			b.taskMu.Lock()
			delete(b.tasks, name)
			b.taskMu.Unlock()
		}()
		fn(ctx)
	}()
}

func (b *Bot) stopTasks() {
	b.taskMu.Lock()
	for _, cancel := range b.tasks {
		cancel()
	}
	b.taskMu.Unlock()
	b.taskWG.Wait()
}
