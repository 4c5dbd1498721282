package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrEmptyDatabaseName      = errors.New("mongo database name is required")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrStoreOperation         = errors.New("mongo store operation failed")
)
