package cog

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

// SlashHandler runs a slash command. A returned error is translated into a
// user-facing embed by the dispatcher; raw error text never reaches users.
type SlashHandler func(ctx *SlashCtx) error

// PrefixHandler runs a legacy prefix command.
type PrefixHandler func(ctx *MsgCtx) error

// ComponentHandler reacts to a component interaction routed by custom-id
// prefix.
type ComponentHandler func(e *events.ComponentInteractionCreate) error

// SlashCommand pairs a platform command declaration with its handler and
// invocation gates.
type SlashCommand struct {
	Create    discord.ApplicationCommandCreate
	Handler   SlashHandler
	Cooldown  time.Duration
	OwnerOnly bool

	name   string
	bucket *cooldown
}

// Name is the declared command name.
func (c *SlashCommand) Name() string {
	return c.name
}

// CheckCooldown applies the per-user cooldown gate.
func (c *SlashCommand) CheckCooldown(userID snowflake.ID) error {
	if c.bucket == nil {
		return nil
	}
	return c.bucket.check(userID)
}

// PrefixCommand is a legacy text command reachable through the literal
// prefixes or a bot mention.
type PrefixCommand struct {
	Name        string
	Aliases     []string
	Description string
	Cooldown    time.Duration
	OwnerOnly   bool
	Handler     PrefixHandler

	bucket *cooldown
}

// CheckCooldown applies the per-user cooldown gate.
func (c *PrefixCommand) CheckCooldown(userID snowflake.ID) error {
	if c.bucket == nil {
		return nil
	}
	return c.bucket.check(userID)
}

type componentRoute struct {
	prefix  string
	handler ComponentHandler
}

// Registry collects everything the loaded cogs declare: slash commands,
// prefix commands with aliases, and component routes. Registration happens
// during cog load; lookups happen on every event, so the maps are guarded
// by a RWMutex.
type Registry struct {
	mu          sync.RWMutex
	slash       map[string]*SlashCommand
	slashOrder  []*SlashCommand
	prefix      map[string]*PrefixCommand
	prefixOrder []*PrefixCommand
	components  []componentRoute
}

func NewRegistry() *Registry {
	return &Registry{
		slash:  make(map[string]*SlashCommand),
		prefix: make(map[string]*PrefixCommand),
	}
}

// RegisterSlash adds a slash command. Duplicate names are an error so a
// misbehaving cog cannot silently shadow another one's command.
func (r *Registry) RegisterSlash(cmd *SlashCommand) error {
	if cmd.Create == nil {
		return fmt.Errorf("slash command declaration missing")
	}
	name := cmd.Create.CommandName()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slash[name]; ok {
		return fmt.Errorf("slash command %q already registered", name)
	}
	cmd.name = name
	if cmd.Cooldown > 0 {
		cmd.bucket = newCooldown(cmd.Cooldown)
	}
	r.slash[name] = cmd
	r.slashOrder = append(r.slashOrder, cmd)
	return nil
}

// RegisterPrefix adds a prefix command under its name and every alias.
func (r *Registry) RegisterPrefix(cmd *PrefixCommand) error {
	if cmd.Name == "" {
		return fmt.Errorf("prefix command name missing")
	}
	keys := append([]string{cmd.Name}, cmd.Aliases...)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		k = strings.ToLower(k)
		if _, ok := r.prefix[k]; ok {
			return fmt.Errorf("prefix command %q already registered", k)
		}
	}
	if cmd.Cooldown > 0 {
		cmd.bucket = newCooldown(cmd.Cooldown)
	}
	for _, k := range keys {
		r.prefix[strings.ToLower(k)] = cmd
	}
	r.prefixOrder = append(r.prefixOrder, cmd)
	return nil
}

// RegisterComponent routes component interactions whose custom id starts
// with prefix to handler.
func (r *Registry) RegisterComponent(prefix string, handler ComponentHandler) error {
	if prefix == "" {
		return fmt.Errorf("component route prefix missing")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, route := range r.components {
		if route.prefix == prefix {
			return fmt.Errorf("component route %q already registered", prefix)
		}
	}
	r.components = append(r.components, componentRoute{prefix: prefix, handler: handler})
	return nil
}

// Slash looks up a slash command by name.
func (r *Registry) Slash(name string) (*SlashCommand, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.slash[name]
	return cmd, ok
}

// Prefix looks up a prefix command by name or alias, case-insensitively.
func (r *Registry) Prefix(name string) (*PrefixCommand, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.prefix[strings.ToLower(name)]
	return cmd, ok
}

// Component resolves the handler for a custom id, first matching route
// wins.
func (r *Registry) Component(customID string) (ComponentHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, route := range r.components {
		if strings.HasPrefix(customID, route.prefix) {
			return route.handler, true
		}
	}
	return nil, false
}

// SlashDeclarations returns the platform declarations in registration
// order, ready for a command-set sync.
func (r *Registry) SlashDeclarations() []discord.ApplicationCommandCreate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]discord.ApplicationCommandCreate, 0, len(r.slashOrder))
	for _, cmd := range r.slashOrder {
		out = append(out, cmd.Create)
	}
	return out
}

// SlashCommands returns the registered slash commands in registration order.
func (r *Registry) SlashCommands() []*SlashCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*SlashCommand, len(r.slashOrder))
	copy(out, r.slashOrder)
	return out
}

// PrefixCommands returns the registered prefix commands in registration
// order, one entry per command regardless of aliases.
func (r *Registry) PrefixCommands() []*PrefixCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*PrefixCommand, len(r.prefixOrder))
	copy(out, r.prefixOrder)
	return out
}
