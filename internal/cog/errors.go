package cog

import (
	"fmt"
	"time"
)

// CooldownError reports a command invoked again before its per-user
// cooldown window elapsed.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("command on cooldown, retry in %.1fs", e.RetryAfter.Seconds())
}

// PermissionError reports a caller who lacks the permission a command
// requires, such as a non-owner invoking an owner-only command.
type PermissionError struct {
	Missing string
}

func (e *PermissionError) Error() string {
	if e.Missing == "" {
		return "missing permissions"
	}
	return "missing permission: " + e.Missing
}
