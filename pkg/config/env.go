package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvMaxStayNights = "MAX_STAY_NIGHTS"
	EnvMaxRoomNumber = "MAX_ROOM_NUMBER"

	EnvSyncDebounce       = "SYNC_DEBOUNCE"
	EnvSyncFlushInterval  = "SYNC_FLUSH_INTERVAL"
	EnvSyncRetryMax       = "SYNC_RETRY_MAX"
	EnvSyncStaleThreshold = "SYNC_STALE_THRESHOLD"

	EnvSubmissionDeadlineDay = "SUBMISSION_DEADLINE_DAY"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"
)
