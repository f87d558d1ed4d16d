package querycache

import (
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	cacheHits          metric.Int64Counter
	cacheMisses        metric.Int64Counter
	cacheSharedFetches metric.Int64Counter
	cacheInvalidations metric.Int64Counter
)

func init() {
	meter := otel.Meter("naat/internal/querycache")

	var err error

	cacheHits, err = meter.Int64Counter(
		"naat.querycache.hits",
		metric.WithDescription("Lookups answered from the query cache"),
	)
	if err != nil {
		log.Fatalf("failed to create querycache.hits counter: %v", err)
	}

	cacheMisses, err = meter.Int64Counter(
		"naat.querycache.misses",
		metric.WithDescription("Lookups that had to fetch"),
	)
	if err != nil {
		log.Fatalf("failed to create querycache.misses counter: %v", err)
	}

	cacheSharedFetches, err = meter.Int64Counter(
		"naat.querycache.shared_fetches",
		metric.WithDescription("Misses that joined a fetch already in flight"),
	)
	if err != nil {
		log.Fatalf("failed to create querycache.shared_fetches counter: %v", err)
	}

	cacheInvalidations, err = meter.Int64Counter(
		"naat.querycache.invalidated_entries",
		metric.WithDescription("Entries removed by invalidation"),
	)
	if err != nil {
		log.Fatalf("failed to create querycache.invalidated_entries counter: %v", err)
	}
}

func queryAttr(query string) metric.AddOption {
	return metric.WithAttributes(attribute.String("query", query))
}
