package models

// SmartScheduleOptions toggles the priority-aware slot generator.
type SmartScheduleOptions struct {
	Enabled                           bool   `bson:"enabled" json:"enabled" mapstructure:"enabled"`
	AllowSkipBreak                    bool   `bson:"allowSkipBreak" json:"allowSkipBreak" mapstructure:"allow_skip_break"`
	AllowSmartSlotStarts              bool   `bson:"allowSmartSlotStarts" json:"allowSmartSlotStarts" mapstructure:"allow_smart_slot_starts"`
	PreferBackToBack                  bool   `bson:"preferBackToBack" json:"preferBackToBack" mapstructure:"prefer_back_to_back"`
	LowerPriorityIfNoFollowingBooking bool   `bson:"lowerPriorityIfNoFollowingBooking" json:"lowerPriorityIfNoFollowingBooking" mapstructure:"lower_priority_if_no_following_booking"`
	FilterLowPrioritySlots            bool   `bson:"filterLowPrioritySlots" json:"filterLowPrioritySlots" mapstructure:"filter_low_priority_slots"`
	MaximizeForOption                 string `bson:"maximizeForOption,omitempty" json:"maximizeForOption,omitempty" mapstructure:"maximize_for_option"`
}

// BookingConstraints configures slot generation and booking validation.
type BookingConstraints struct {
	// Candidate starts must be multiples of this offset from the shift start.
	SlotGranularityMinutes int `bson:"slotGranularityMinutes" json:"slotGranularityMinutes" mapstructure:"slot_granularity_minutes"`
	// Minimum free time required immediately before/after the slot relative
	// to neighboring busy periods.
	BufferBeforeMinutes int `bson:"bufferBeforeMinutes" json:"bufferBeforeMinutes" mapstructure:"buffer_before_minutes"`
	BufferAfterMinutes  int `bson:"bufferAfterMinutes" json:"bufferAfterMinutes" mapstructure:"buffer_after_minutes"`
	// Optional fixed allow-list of "HH:MM" start times; when present, only
	// these are considered instead of the granularity grid.
	CustomSlotTimes []string             `bson:"customSlotTimes,omitempty" json:"customSlotTimes,omitempty" mapstructure:"custom_slot_times"`
	SmartSchedule   SmartScheduleOptions `bson:"smartSchedule" json:"smartSchedule" mapstructure:"smart_schedule"`
}
