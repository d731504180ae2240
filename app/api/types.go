package api

import (
	"github.com/lysyi3m/pet-comb/app/database"
	"github.com/lysyi3m/pet-comb/app/feed"
)

type Handler struct {
	syncer    *feed.Syncer
	view      *feed.View
	petRepo   database.PetRepository
	stateRepo database.StateRepository
	config    *feed.Config
}
