package syringe

import "time"

// Slot names the destination a binding was applied to.
type Slot string

const (
	SlotAttrs           Slot = "attrs"
	SlotProps           Slot = "props"
	SlotListeners       Slot = "on"
	SlotComponentOn     Slot = "listeners"
	SlotNativeListeners Slot = "nativeOn"
	SlotClass           Slot = "class"
	SlotStyle           Slot = "style"
	SlotKey             Slot = "key"
	SlotDirectives      Slot = "directives"
)

// PassStats summarizes one injection pass.
type PassStats struct {
	Children   int           // children received
	Elements   int           // native elements processed
	Components int           // component placeholders processed
	Skipped    int           // text, comment and other untouched children
	Bindings   int           // bindings carried by the wrapper
	Mismatches int           // incompatible merges that fell back to replacement
	Collisions int           // keys shared by more than one child
	FastPath   bool          // wrapper had no bindings
	Duration   time.Duration // wall time of the pass
}

// Observer receives diagnostics from a Syringe. Implementations must be
// safe for concurrent use when Options.Parallel is set.
type Observer interface {
	// ObserveMerge is called once per applied binding.
	ObserveMerge(slot Slot, policy Policy, outcome Outcome)
	// ObserveCollision is called for each key that more than one child
	// received from the wrapper.
	ObserveCollision(key string, count int)
	// ObservePass is called when a pass completes.
	ObservePass(stats PassStats)
}

// NopObserver discards all diagnostics.
type NopObserver struct{}

func (NopObserver) ObserveMerge(Slot, Policy, Outcome) {}
func (NopObserver) ObserveCollision(string, int)       {}
func (NopObserver) ObservePass(PassStats)              {}

// Observers fans diagnostics out to several observers.
type Observers []Observer

func (o Observers) ObserveMerge(slot Slot, policy Policy, outcome Outcome) {
	for _, obs := range o {
		obs.ObserveMerge(slot, policy, outcome)
	}
}

func (o Observers) ObserveCollision(key string, count int) {
	for _, obs := range o {
		obs.ObserveCollision(key, count)
	}
}

func (o Observers) ObservePass(stats PassStats) {
	for _, obs := range o {
		obs.ObservePass(stats)
	}
}
