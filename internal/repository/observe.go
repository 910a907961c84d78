package repository

import (
	"time"

	"socialnet/pkg/metrics"
)

// observe is deferred by every repository method with a pointer to its named
// error result so the metric sees the final outcome.
func observe(operation, entity string, start time.Time, err *error) {
	metrics.RecordDatabaseOperation(operation, entity, *err, time.Since(start))
}
