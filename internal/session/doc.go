// Package session drives one remote desktop launch: power on, reserve,
// fetch display parameters, write the viewer artifact, spawn remote-viewer
// and release the reservation.
//
// Once the reservation succeeds the launcher owns an unlock obligation
// that is discharged exactly once on every exit path, including errors,
// context cancellation and panics. Unlocks run in the background; callers
// that exit soon after Launch should call Launcher.Wait.
package session
