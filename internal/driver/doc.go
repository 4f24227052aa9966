// Package driver owns animation progress for one reaction and turns every
// change into exactly one scene resolution.
//
// A [Driver] is a two-state machine ([Paused], [Playing]). While playing,
// [Driver.Advance] moves progress forward at Config.Rate per second and
// either holds at 1 or wraps to 0. [Driver.Scrub] and [Driver.SetView] change
// progress or view in either state.
//
// Changes, resolutions and deliveries are serialised by one mutex, so sinks
// see descriptions in the order the changes were made. The record is fetched
// from the [Source] on every resolution and never cached.
package driver
