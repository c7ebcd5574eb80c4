package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pollboard_polls_created_total",
		Help: "Number of polls created.",
	})
	votesCast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pollboard_votes_cast_total",
		Help: "Number of votes recorded.",
	})
	pageCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pollboard_page_cache_lookups_total",
		Help: "Page cache lookups by result.",
	}, []string{"result"})
)
