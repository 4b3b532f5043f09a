package dto

import "time"

// InitializePersistenceCommand bounds the startup wait for the postgres
// cooldown store. The sqlite and redis stores bootstrap on open and never
// issue this command.
type InitializePersistenceCommand struct {
	ReadinessTimeout       time.Duration
	ReadinessRetryInterval time.Duration
}
