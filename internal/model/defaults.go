package model

import "time"

// Shared defaults used by the server, the terminal cruise and the resolver.
const (
	DefaultInterval        = 60 * time.Second
	DefaultPauseLength     = 180 * time.Second
	DefaultBackgroundColor = "#303030"
	DefaultSkin            = "default"
)

// Layout and timing constants of the cruise runtime.
const (
	HeaderHeight      = 20
	CycleFrameInset   = 25
	TileMargin        = 5
	PauseMarkerWindow = 10 * time.Second
	MaxTickPeriod     = 5 * time.Second
)

// Option keys understood by the resolver. Body attributes carry them with AttributePrefix.
const (
	OptionInterval   = "interval"
	OptionView       = "view"
	OptionConfig     = "config"
	OptionConfigBase = "configbase"
	AttributePrefix  = "autocruise-"
)
