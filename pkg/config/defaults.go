package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tdms"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultMaxStayNights = 365
	DefaultMaxRoomNumber = 200

	DefaultSyncDebounce       = 2 * time.Second
	DefaultSyncFlushInterval  = 500 * time.Millisecond
	DefaultSyncRetryMax       = 5
	DefaultSyncStaleThreshold = 3

	// Monthly reports are due on the 10th of the following month.
	DefaultSubmissionDeadlineDay = 10

	DefaultKafkaTopic = "tdms.submissions"

	DefaultPaginationMaxLimit = 100
)
