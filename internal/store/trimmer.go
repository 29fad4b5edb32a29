package store

import (
	"log"
	"time"

	"code.dogecoin.org/governor"

	"code.dogecoin.org/peerwire/internal/spec"
)

// NewStoreTrimmer expires stale peers every interval (default hourly).
func NewStoreTrimmer(store spec.Store, interval time.Duration) governor.Service {
	if interval <= 0 {
		interval = time.Hour
	}
	return &StoreTrimmer{
		store:    store,
		interval: interval,
	}
}

type StoreTrimmer struct {
	governor.ServiceCtx
	store    spec.Store
	interval time.Duration
}

// goroutine
func (sv *StoreTrimmer) Run() {
	store := sv.store.WithCtx(sv.Context)
	for !sv.Sleep(sv.interval) {
		remPeers, err := store.TrimPeers()
		if err != nil {
			log.Printf("[Store] TrimPeers: %v", err)
			continue
		}
		if remPeers > 0 {
			log.Printf("[Store] TrimPeers: expired %v peers", remPeers)
		}
	}
}
