package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound           = errors.New("player not found")
	ErrIdentityNotBound         = errors.New("no player bound to subject in this game")
	ErrSubjectMismatch          = errors.New("subject does not match target player")
	ErrSubjectAlreadyRegistered = errors.New("subject already registered in this game")

	// Kill errors
	ErrKillNotFound = errors.New("kill not found")
	ErrInvalidKill  = errors.New("invalid kill")

	// Squad errors
	ErrSquadNotFound           = errors.New("squad not found")
	ErrPlayerAlreadyInSquad    = errors.New("player is already in a squad")
	ErrPlayerNotInSquad        = errors.New("player is not in a squad")
	ErrPlayerLeavingWrongSquad = errors.New("player is trying to leave a squad they are not in")
	ErrSquadNameInUse          = errors.New("squad name already in use in this game")

	// Channel errors
	ErrChannelNotFound     = errors.New("channel not found")
	ErrChannelOwnedBySquad = errors.New("channel is owned by a squad")

	// Mission errors
	ErrMissionNotFound = errors.New("mission not found")

	// Game errors
	ErrGameNotFound = errors.New("game not found")
)
