package config

import "time"

type SchedulingConfig struct {
	MaxProposedSlots       int
	MaxProposedModes       int
	DefaultDurationMinutes int
	SweepInterval          time.Duration
	EventsChannel          string
}

func loadSchedulingConfig() SchedulingConfig {
	return SchedulingConfig{
		MaxProposedSlots:       getEnvInt("SCHEDULING_MAX_SLOTS", 3),
		MaxProposedModes:       getEnvInt("SCHEDULING_MAX_MODES", 3),
		DefaultDurationMinutes: getEnvInt("SCHEDULING_DEFAULT_DURATION_MINUTES", 60),
		SweepInterval:          getEnvDuration("SCHEDULING_SWEEP_INTERVAL", 5*time.Minute),
		EventsChannel:          getEnv("SCHEDULING_EVENTS_CHANNEL", "scheduling.events"),
	}
}
